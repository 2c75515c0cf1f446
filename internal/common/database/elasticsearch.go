// internal/common/database/elasticsearch.go
package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gigdial/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchClient wraps the Elasticsearch client
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

// NewElasticsearch creates a new Elasticsearch client
func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	addresses := cfg.Addresses
	if len(addresses) == 0 && cfg.GetURL() != "" {
		addresses = []string{cfg.GetURL()}
	}

	esCfg := elasticsearch.Config{
		Addresses: addresses,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ElasticsearchClient{Client: es}, nil
}

// Ping tests the Elasticsearch connection
func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// Search runs a query DSL body against index and returns the raw response body.
func (c *ElasticsearchClient) Search(ctx context.Context, index string, query map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, c.Client)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search error: %s: %s", res.Status(), string(body))
	}
	return body, nil
}

// BulkIndex writes docs keyed by id into index using the _bulk API.
func (c *ElasticsearchClient) BulkIndex(ctx context.Context, index string, docs map[string]interface{}) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for id, doc := range docs {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": index, "_id": id}}
		if err := enc.Encode(meta); err != nil {
			return 0, err
		}
		if err := enc.Encode(doc); err != nil {
			return 0, err
		}
	}

	req := esapi.BulkRequest{
		Body:    &buf,
		Refresh: "true",
	}
	res, err := req.Do(ctx, c.Client)
	if err != nil {
		return 0, fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("bulk error: %s", res.Status())
	}

	var parsed struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode bulk response: %w", err)
	}

	indexed := 0
	for _, item := range parsed.Items {
		for _, r := range item {
			if r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices {
				indexed++
			}
		}
	}
	if parsed.Errors && indexed == 0 {
		return 0, fmt.Errorf("bulk indexing rejected all %d documents", len(docs))
	}
	return indexed, nil
}

// EnsureIndex creates index with mapping unless it already exists.
func (c *ElasticsearchClient) EnsureIndex(ctx context.Context, index string, mapping map[string]interface{}) error {
	exists, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, c.Client)
	if err != nil {
		return fmt.Errorf("index exists request: %w", err)
	}
	if exists.Body != nil {
		exists.Body.Close()
	}
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(mapping); err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	res, err := esapi.IndicesCreateRequest{Index: index, Body: &buf}.Do(ctx, c.Client)
	if err != nil {
		return fmt.Errorf("create index request: %w", err)
	}
	defer res.Body.Close()

	// a concurrent creator may have won
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("create index %s: %s", index, res.Status())
	}
	return nil
}
