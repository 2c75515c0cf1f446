// internal/workers/catalog/classify-category/handler.go
package classifycategory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gigdial/internal/common/camunda"
	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "classify-gig-category"
)

var (
	ErrNoCategories = errors.New("NO_CATEGORIES")
)

type Handler struct {
	config     *Config
	classifier *Classifier
	logger     logger.Logger
}

func NewHandler(config *Config, classifier *Classifier, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
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
		camunda.FailJob(client, job, apperrors.NewInvalidInputError(err.Error()), h.logger)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

// Execute classifies every category in input. Results keep input order.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	categories := input.Categories
	if input.Category != "" {
		categories = append([]string{input.Category}, categories...)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: %w", apperrors.NewInvalidInputError("category or categories is required"), ErrNoCategories)
	}

	out := &Output{
		Results: make([]Result, 0, len(categories)),
		Policy:  h.config.UnmatchedPolicy,
	}
	for _, category := range categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := h.classifier.Classify(category)
		row := Resolve(c, h.config.UnmatchedPolicy)
		metrics.GigsClassified.WithLabelValues(string(row), strconv.FormatBool(c.Matched)).Inc()
		out.Results = append(out.Results, Result{Category: category, Classification: c, Row: row})
	}
	return out, nil
}
