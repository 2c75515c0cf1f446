// internal/workers/directory/get-worker-profile/handler.go
package getworkerprofile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gigdial/internal/common/camunda"
	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/models"
	aggregategigrows "gigdial/internal/workers/catalog/aggregate-gig-rows"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/sync/errgroup"
)

const (
	TaskType = "get-worker-profile"
)

// ProfileBackend is the slice of the upstream client the profile needs.
type ProfileBackend interface {
	GetWorker(ctx context.Context, workerID string) (*models.WorkerProfile, error)
	ListWorkerGigs(ctx context.Context, workerID string) ([]models.Gig, error)
}

type Handler struct {
	config  *Config
	backend ProfileBackend
	logger  logger.Logger
}

func NewHandler(config *Config, backend ProfileBackend, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		backend: backend,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

// Execute fetches the worker record and the worker's gigs concurrently.
// A failed worker fetch is reported as WORKER_NOT_FOUND; a failed gig fetch
// only empties the services section.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	workerID := strings.TrimSpace(input.WorkerID)
	if workerID == "" {
		return nil, apperrors.NewInvalidInputError("workerId is required")
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	var (
		profile *models.WorkerProfile
		gigs    []models.Gig
		gigsErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := h.backend.GetWorker(gctx, workerID)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		gigs, gigsErr = h.backend.ListWorkerGigs(gctx, workerID)
		return nil
	})

	if err := g.Wait(); err != nil {
		h.logger.Warn("worker fetch failed", map[string]interface{}{
			"workerId": workerID,
			"error":    err,
		})
		return nil, notFound(workerID, err)
	}
	if profile == nil {
		return nil, notFound(workerID, nil)
	}

	out := &Output{Worker: *profile, Gigs: []aggregategigrows.Card{}}
	if gigsErr != nil {
		h.logger.Warn("worker gigs unavailable", map[string]interface{}{
			"workerId": workerID,
			"error":    gigsErr,
		})
		out.GigsUnavailable = true
		return out, nil
	}

	for _, gig := range gigs {
		out.Gigs = append(out.Gigs, aggregategigrows.ToCard(gig, h.config.PlaceholderImage))
	}
	return out, nil
}

func notFound(workerID string, cause error) *apperrors.StandardError {
	e := apperrors.NewWorkerNotFoundError(workerID).WithMetadata("back", BackPath)
	if cause != nil {
		e.WithMetadata("cause", string(apperrors.AsStandard(cause).Code))
	}
	return e
}
