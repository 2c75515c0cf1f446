// internal/workers/accounts/register-user/handler.go
package registeruser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gigdial/internal/common/camunda"
	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/common/validation"
	"gigdial/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "register-user"
)

type Registrar interface {
	RegisterUser(ctx context.Context, reg models.Registration) (*models.RegisteredUser, error)
}

type Handler struct {
	config    *Config
	registrar Registrar
	schemas   *validation.Registry
	logger    logger.Logger
}

func NewHandler(config *Config, registrar Registrar, schemas *validation.Registry, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		registrar: registrar,
		schemas:   schemas,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

// Execute validates the registration and forwards it unchanged. Backend
// rejections keep their status.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	reg := *input
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	if !reg.IsProvider {
		reg.Skills = nil
	}

	if err := h.schemas.ValidateValue(validation.SchemaRegistration, reg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	user, err := h.registrar.RegisterUser(ctx, reg)
	if err != nil {
		h.logger.Warn("registration rejected", map[string]interface{}{
			"email":      reg.Email,
			"isProvider": reg.IsProvider,
			"error":      err,
		})
		return nil, err
	}

	h.logger.Info("user registered", map[string]interface{}{
		"userId":     user.ID,
		"isProvider": user.IsProvider,
	})
	return &Output{User: *user}, nil
}
