// internal/workers/directory/list-approved-workers/handler.go
package listapprovedworkers

import (
	"context"
	"encoding/json"
	"fmt"

	"gigdial/internal/common/camunda"
	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "filter-approved-workers"
)

// WorkerLister fetches the approved-worker set.
type WorkerLister interface {
	ListApprovedWorkers(ctx context.Context) ([]models.WorkerProfile, error)
}

type Handler struct {
	config *Config
	lister WorkerLister
	logger logger.Logger
}

func NewHandler(config *Config, lister WorkerLister, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		lister: lister,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

// Execute fetches the approved workers once and applies the filter.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	workers, err := h.lister.ListApprovedWorkers(ctx)
	if err != nil {
		return nil, err
	}

	filtered := Filter(workers, input.Search, input.Category)
	return &Output{Workers: filtered, Total: len(filtered)}, nil
}
