// internal/workers/locations/list-cities/handler.go
package listcities

import (
	"context"

	"gigdial/internal/common/camunda"
	"gigdial/internal/common/logger"
	"gigdial/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "list-cities"
)

type CityLister interface {
	ListCities(ctx context.Context) ([]models.City, error)
}

type Handler struct {
	config *Config
	lister CityLister
	logger logger.Logger
}

func NewHandler(config *Config, lister CityLister, log logger.Logger) *Handler {
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	camunda.CompleteJob(client, job, h.Execute(ctx, &Input{}), h.logger)
}

// Execute never fails; any upstream problem yields the fallback list.
func (h *Handler) Execute(ctx context.Context, _ *Input) *Output {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	cities, err := h.lister.ListCities(ctx)
	if err != nil || len(cities) == 0 {
		fields := map[string]interface{}{"fallbackCount": len(FallbackCities)}
		if err != nil {
			fields["error"] = err
		}
		h.logger.Warn("city list unavailable, serving fallback", fields)

		out := make([]models.City, len(FallbackCities))
		copy(out, FallbackCities)
		return &Output{Cities: out, Fallback: true}
	}
	return &Output{Cities: cities}
}
