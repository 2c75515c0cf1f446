// internal/workers/catalog/search-gigs/handler.go
package searchgigs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gigdial/internal/common/backend"
	"gigdial/internal/common/camunda"
	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/common/metrics"
	"gigdial/internal/models"
	aggregategigrows "gigdial/internal/workers/catalog/aggregate-gig-rows"
	classifycategory "gigdial/internal/workers/catalog/classify-category"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "search-gigs"
)

// SearchIndex is the Elasticsearch surface used for gig search and reindexing.
type SearchIndex interface {
	Search(ctx context.Context, index string, query map[string]interface{}) ([]byte, error)
	BulkIndex(ctx context.Context, index string, docs map[string]interface{}) (int, error)
	EnsureIndex(ctx context.Context, index string, mapping map[string]interface{}) error
}

type Handler struct {
	config     *Config
	index      SearchIndex
	source     backend.GigSource
	classifier *classifycategory.Classifier
	logger     logger.Logger
}

// NewHandler wires search. index may be nil, in which case every search is
// served from the gig source.
func NewHandler(config *Config, index SearchIndex, source backend.GigSource, classifier *classifycategory.Classifier, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		index:      index,
		source:     source,
		classifier: classifier,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		camunda.FailJob(client, job, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)), h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		camunda.FailJob(client, job, err, h.logger)
		return
	}
	camunda.CompleteJob(client, job, output, h.logger)
}

// Normalize clamps paging and validates the bucket filter.
func (h *Handler) Normalize(input *Input) error {
	input.Query = strings.TrimSpace(input.Query)
	if input.From < 0 {
		input.From = 0
	}
	if input.Size <= 0 {
		input.Size = h.config.DefaultSize
	}
	if input.Size > h.config.MaxSize {
		input.Size = h.config.MaxSize
	}
	if input.Bucket != "" && !input.Bucket.Known() && input.Bucket != classifycategory.BucketOther {
		return apperrors.NewInvalidInputError(fmt.Sprintf("unknown bucket %q", input.Bucket))
	}
	return nil
}

// Execute searches Elasticsearch and falls back to filtering the gig list
// when the index is unavailable.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.Normalize(input); err != nil {
		return nil, err
	}

	if h.index != nil {
		out, err := h.searchIndex(ctx, input)
		if err == nil {
			return out, nil
		}
		logger.FromContext(ctx, h.logger).Warn("elasticsearch search failed, using fallback", map[string]interface{}{
			"error": err,
		})
	}

	metrics.SearchFallbacks.Inc()
	return h.searchFallback(ctx, input)
}

func (h *Handler) searchIndex(ctx context.Context, input *Input) (*Output, error) {
	raw, err := h.index.Search(ctx, h.config.Index, buildSearchQuery(*input))
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}
	resp, err := parseSearchResponse(raw)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}

	out := &Output{Hits: make([]Hit, 0, len(resp.Hits.Hits)), Total: resp.Hits.Total.Value, Source: SourceElasticsearch}
	for _, hit := range resp.Hits.Hits {
		doc := hit.Source
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		score := 0.0
		if hit.Score != nil {
			score = *hit.Score
		}
		out.Hits = append(out.Hits, Hit{
			Card:   aggregategigrows.ToCard(doc.gig(), h.config.PlaceholderImage),
			Bucket: classifycategory.Bucket(doc.Bucket),
			Score:  score,
		})
	}
	return out, nil
}

func (h *Handler) searchFallback(ctx context.Context, input *Input) (*Output, error) {
	gigs, err := h.source.Gigs(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(input.Query)
	matched := make([]Hit, 0)
	for _, g := range gigs {
		bucket := classifycategory.Resolve(h.classifier.Classify(g.Category), h.config.UnmatchedPolicy)
		if input.Bucket != "" && bucket != input.Bucket {
			continue
		}
		if needle != "" && !matchesText(g, needle) {
			continue
		}
		matched = append(matched, Hit{Card: aggregategigrows.ToCard(g, h.config.PlaceholderImage), Bucket: bucket})
	}

	out := &Output{Total: len(matched), Source: SourceFallback, Hits: []Hit{}}
	if input.From < len(matched) {
		end := input.From + input.Size
		if end > len(matched) {
			end = len(matched)
		}
		out.Hits = matched[input.From:end]
	}
	return out, nil
}

func matchesText(g models.Gig, needle string) bool {
	return strings.Contains(strings.ToLower(g.Title), needle) ||
		strings.Contains(strings.ToLower(g.Category), needle) ||
		strings.Contains(strings.ToLower(g.Description), needle)
}
