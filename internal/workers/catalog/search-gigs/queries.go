// internal/workers/catalog/search-gigs/queries.go
package searchgigs

import (
	"encoding/json"
	"fmt"
)

// buildSearchQuery builds a bool query: multi_match on the text fields and an
// optional term filter on the resolved bucket.
func buildSearchQuery(input Input) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if input.Query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  input.Query,
				"fields": []string{"title^3", "category^2", "description"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if input.Bucket != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"bucket": string(input.Bucket)},
		})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"from":  input.From,
		"size":  input.Size,
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"salesCount": map[string]interface{}{"order": "desc", "missing": "_last"}},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string      `json:"_id"`
			Score  *float64    `json:"_score"`
			Source GigDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func parseSearchResponse(raw []byte) (*searchResponse, error) {
	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &resp, nil
}

// indexMapping is applied when the gig index is created.
var indexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"title":       map[string]interface{}{"type": "text"},
			"category":    map[string]interface{}{"type": "text"},
			"description": map[string]interface{}{"type": "text"},
			"bucket":      map[string]interface{}{"type": "keyword"},
			"matched":     map[string]interface{}{"type": "boolean"},
			"price":       map[string]interface{}{"type": "double"},
			"rating":      map[string]interface{}{"type": "double"},
			"salesCount":  map[string]interface{}{"type": "integer"},
			"coverImage":  map[string]interface{}{"type": "keyword", "index": false},
			"workerId":    map[string]interface{}{"type": "keyword"},
		},
	},
}
