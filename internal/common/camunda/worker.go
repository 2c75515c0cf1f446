// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"
	"time"

	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every task handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Registration binds a task type to its handler.
type Registration struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
	Handler       JobHandler
}

// WorkerPool owns the open job workers for one Zeebe client.
type WorkerPool struct {
	client  zbc.Client
	logger  logger.Logger
	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewWorkerPool(client zbc.Client, log logger.Logger) *WorkerPool {
	return &WorkerPool{
		client:  client,
		logger:  log,
		workers: map[string]worker.JobWorker{},
	}
}

// Register opens a job worker for r. Registering a task type twice is a no-op.
func (p *WorkerPool) Register(r Registration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.workers[r.TaskType]; exists {
		return
	}

	handler := instrument(r.TaskType, r.Handler)
	step := p.client.NewJobWorker().
		JobType(r.TaskType).
		Handler(handler.Handle).
		Name("gigdial-" + r.TaskType)
	if r.MaxJobsActive > 0 {
		step = step.MaxJobsActive(r.MaxJobsActive)
	}
	if r.Timeout > 0 {
		step = step.Timeout(r.Timeout)
	}

	p.workers[r.TaskType] = step.Open()
	p.logger.Info("worker started", map[string]interface{}{
		"taskType":      r.TaskType,
		"maxJobsActive": r.MaxJobsActive,
	})
}

// TaskTypes returns the registered task types.
func (p *WorkerPool) TaskTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.workers))
	for t := range p.workers {
		out = append(out, t)
	}
	return out
}

// Close stops all workers and waits for in-flight jobs.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for taskType, w := range p.workers {
		p.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		w.Close()
		w.AwaitClose()
	}
	p.workers = map[string]worker.JobWorker{}
}

type instrumented struct {
	taskType string
	next     JobHandler
}

func instrument(taskType string, next JobHandler) instrumented {
	return instrumented{taskType: taskType, next: next}
}

func (i instrumented) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	defer func() {
		metrics.WorkerJobDuration.WithLabelValues(i.taskType).Observe(time.Since(start).Seconds())
	}()
	i.next.Handle(client, job)
}

// CompleteJob completes job with output as its variables.
func CompleteJob(client worker.JobClient, job entities.Job, output interface{}, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(job.Type).Inc()
}

// FailJob routes err through the shared ErrorHandler: retryable codes fail
// the job with retries, everything else throws a BPMN error.
func FailJob(client worker.JobClient, job entities.Job, err error, log logger.Logger) {
	stdErr := apperrors.AsStandard(err)
	metrics.WorkerJobsFailed.WithLabelValues(job.Type, string(stdErr.Code)).Inc()
	apperrors.NewErrorHandler(log).HandleJobError(context.Background(), client, job, stdErr)
}
