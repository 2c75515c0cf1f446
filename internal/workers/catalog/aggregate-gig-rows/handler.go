// internal/workers/catalog/aggregate-gig-rows/handler.go
package aggregategigrows

import (
	"context"
	"encoding/json"
	"fmt"

	"gigdial/internal/common/backend"
	"gigdial/internal/common/camunda"
	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "aggregate-gig-rows"
)

type Handler struct {
	config     *Config
	aggregator *Aggregator
	source     backend.GigSource
	logger     logger.Logger
}

func NewHandler(config *Config, aggregator *Aggregator, source backend.GigSource, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		aggregator: aggregator,
		source:     source,
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

// Execute aggregates the supplied gigs, or fetches them when none are given.
// A fetch failure is returned so the job can be retried.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Gigs) > 0 {
		return &Output{Rows: h.aggregator.Aggregate(input.Gigs)}, nil
	}
	gigs, err := h.source.Gigs(ctx)
	if err != nil {
		return nil, err
	}
	return &Output{Rows: h.aggregator.Aggregate(gigs)}, nil
}

// Build returns the catalog rows for the HTTP surface. It never fails: a
// fetch failure yields empty rows in the error state.
func (h *Handler) Build(ctx context.Context) Rows {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	gigs, err := h.source.Gigs(ctx)
	if err != nil {
		logger.FromContext(ctx, h.logger).Warn("gig fetch failed, serving empty rows", map[string]interface{}{
			"error": err,
		})
		return h.aggregator.Failed(err)
	}
	return h.aggregator.Aggregate(gigs)
}
