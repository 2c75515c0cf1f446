package database

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gigdial/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Redis
// ==========================

func newTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestRedis_JSONRoundTripAndTTL(t *testing.T) {
	rc, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.SetJSON(ctx, "k", map[string]string{"a": "b"}, time.Minute))

	var got map[string]string
	require.NoError(t, rc.GetJSON(ctx, "k", &got))
	assert.Equal(t, "b", got["a"])

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, rc.GetJSON(ctx, "k", &got), ErrCacheMiss)
}

func TestRedis_MoveJSON_OnlyOnce(t *testing.T) {
	rc, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.SetJSON(ctx, "intent", "G123", time.Minute))

	mark := func(raw []byte) (interface{}, error) {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v + ":moved", nil
	}

	require.NoError(t, rc.MoveJSON(ctx, "intent", "intent:done", time.Minute, mark))
	assert.False(t, mr.Exists("intent"))

	var got string
	require.NoError(t, rc.GetJSON(ctx, "intent:done", &got))
	assert.Equal(t, "G123:moved", got)
	assert.Equal(t, time.Minute, mr.TTL("intent:done"))

	assert.ErrorIs(t, rc.MoveJSON(ctx, "intent", "intent:done", time.Minute, mark), ErrCacheMiss)
}

func TestRedis_MoveJSON_UpdateErrorKeepsSource(t *testing.T) {
	rc, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.SetJSON(ctx, "intent", "G123", time.Minute))

	err := rc.MoveJSON(ctx, "intent", "intent:done", time.Minute, func([]byte) (interface{}, error) {
		return nil, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, mr.Exists("intent"))
	assert.False(t, mr.Exists("intent:done"))
}

// ==========================
// Postgres
// ==========================

func TestPostgres_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contact_messages").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgresFromDB(db).Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresConfig_DSN(t *testing.T) {
	dsn := config.PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "gigdial", SSLMode: "disable"}.GetDSN()
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=gigdial sslmode=disable", dsn)
}

// ==========================
// Elasticsearch
// ==========================

func newTestES(t *testing.T, handler http.HandlerFunc) *ElasticsearchClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	return es
}

func TestElasticsearch_Search(t *testing.T) {
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gigs/_search", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "multi_match")
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":1},"hits":[{"_id":"g1","_source":{"title":"Yoga"}}]}}`))
	})

	raw, err := es.Search(context.Background(), "gigs", map[string]interface{}{
		"query": map[string]interface{}{"multi_match": map[string]interface{}{"query": "yoga"}},
	})
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Contains(t, parsed, "hits")
}

func TestElasticsearch_SearchErrorStatus(t *testing.T) {
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"index_not_found_exception"}`))
	})

	_, err := es.Search(context.Background(), "gigs", map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index_not_found_exception")
}

func TestElasticsearch_BulkIndex(t *testing.T) {
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_bulk", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, 4, strings.Count(string(body), "\n"))
		_, _ = w.Write([]byte(`{"errors":false,"items":[{"index":{"status":201}},{"index":{"status":200}}]}`))
	})

	n, err := es.BulkIndex(context.Background(), "gigs", map[string]interface{}{
		"g1": map[string]string{"title": "Yoga"},
		"g2": map[string]string{"title": "Plumbing"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestElasticsearch_EnsureIndex(t *testing.T) {
	var created bool
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			created = true
			assert.Equal(t, "/gigs", r.URL.Path)
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		}
	})

	require.NoError(t, es.EnsureIndex(context.Background(), "gigs", map[string]interface{}{"mappings": map[string]interface{}{}}))
	assert.True(t, created)
}
