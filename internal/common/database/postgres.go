// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gigdial/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL connection used for the contact-message audit trail.
type PostgresClient struct {
	DB *sql.DB
}

// contactMessagesDDL creates the audit table on first start.
const contactMessagesDDL = `
CREATE TABLE IF NOT EXISTS contact_messages (
	id           UUID PRIMARY KEY,
	sender_id    TEXT NOT NULL,
	recipient_id TEXT NOT NULL,
	gig_id       TEXT,
	content      TEXT NOT NULL,
	upstream_id  TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// NewPostgres opens a pooled connection. The pool is lazy; call Ping to verify.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// NewPostgresFromDB wraps an existing handle, e.g. one created by sqlmock.
func NewPostgresFromDB(db *sql.DB) *PostgresClient {
	return &PostgresClient{DB: db}
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Migrate creates the tables gigdial owns.
func (c *PostgresClient) Migrate(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, contactMessagesDDL); err != nil {
		return fmt.Errorf("create contact_messages: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func (c *PostgresClient) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.DB.ExecContext(ctx, query, args...)
}

func (c *PostgresClient) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return c.DB.QueryRowContext(ctx, query, args...)
}
