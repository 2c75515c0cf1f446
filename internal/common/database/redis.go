// internal/common/database/redis.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gigdial/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by GetJSON and MoveJSON when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// RedisClient wraps the Redis client
type RedisClient struct {
	Client *redis.Client
}

// NewRedis creates a new Redis client
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &RedisClient{Client: rdb}, nil
}

// NewRedisFromClient wraps an existing client (miniredis or redismock in tests).
func NewRedisFromClient(rdb *redis.Client) *RedisClient {
	return &RedisClient{Client: rdb}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// SetJSON stores v encoded as JSON with the given expiration.
func (c *RedisClient) SetJSON(ctx context.Context, key string, v interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Client.Set(ctx, key, raw, expiration).Err()
}

// GetJSON decodes the value at key into v.
func (c *RedisClient) GetJSON(ctx context.Context, key string, v interface{}) error {
	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// MoveJSON atomically replaces from with to. update receives the raw value
// of from and returns the value written to to. Only one caller can move a
// given key; the others get ErrCacheMiss, as does a missing key.
func (c *RedisClient) MoveJSON(ctx context.Context, from, to string, expiration time.Duration, update func(raw []byte) (interface{}, error)) error {
	err := c.Client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, from).Bytes()
		if err != nil {
			return err
		}
		next, err := update(raw)
		if err != nil {
			return err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", to, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, to, data, expiration)
			pipe.Del(ctx, from)
			return nil
		})
		return err
	}, from)
	if errors.Is(err, redis.Nil) || errors.Is(err, redis.TxFailedErr) {
		return ErrCacheMiss
	}
	return err
}

// Del deletes one or more keys
func (c *RedisClient) Del(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}
