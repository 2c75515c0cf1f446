// internal/workers/booking/send-contact-message/handler.go
package sendcontactmessage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gigdial/internal/common/auth"
	"gigdial/internal/common/backend"
	"gigdial/internal/common/camunda"
	"gigdial/internal/common/database"
	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/common/metrics"
	"gigdial/internal/common/validation"
	"gigdial/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-contact-message"
)

// MessageBackend forwards messages and looks up the recipient.
type MessageBackend interface {
	SendMessage(ctx context.Context, token string, req backend.SendMessageRequest) (*backend.SendMessageResponse, error)
	GetWorker(ctx context.Context, workerID string) (*models.WorkerProfile, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, payload interface{}) (string, error)
}

type EmailSender interface {
	SendText(ctx context.Context, to, subject, body string) (string, error)
}

// IntentCloser marks a resumed booking intent as sent.
type IntentCloser interface {
	MarkSent(ctx context.Context, intentID string) error
}

// Deps holds the optional collaborators. Nil members are skipped.
type Deps struct {
	DB      *database.PostgresClient
	Events  EventPublisher
	Email   EmailSender
	Intents IntentCloser
}

type Handler struct {
	config  *Config
	backend MessageBackend
	schemas *validation.Registry
	deps    Deps
	logger  logger.Logger
	now     func() time.Time
}

func NewHandler(config *Config, backend MessageBackend, schemas *validation.Registry, deps Deps, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		backend: backend,
		schemas: schemas,
		deps:    deps,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:     time.Now,
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

	if input.Token != "" {
		ctx = auth.WithSession(ctx, auth.Session{Identity: &auth.Identity{UserID: input.UserID, Token: input.Token}})
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		camunda.FailJob(client, job, err, h.logger)
		return
	}
	camunda.CompleteJob(client, job, output, h.logger)
}

// Execute forwards the message as the signed-in caller. Only the upstream
// send can fail the request; audit and notifications are best effort.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	returnTo := "/workers/" + strings.TrimSpace(input.RecipientID)
	identity, err := auth.RequireIdentity(ctx, auth.LoginURL(h.config.LoginPath, returnTo, input.IntentID))
	if err != nil {
		return nil, err
	}

	req := body{
		RecipientID: strings.TrimSpace(input.RecipientID),
		Content:     strings.TrimSpace(input.Content),
		GigID:       strings.TrimSpace(input.GigID),
		IntentID:    input.IntentID,
	}
	if err := h.schemas.ValidateValue(validation.SchemaContactMessage, req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	resp, err := h.backend.SendMessage(ctx, identity.Token, backend.SendMessageRequest{
		RecipientID: req.RecipientID,
		Content:     req.Content,
	})
	if err != nil {
		return nil, err
	}

	sentAt := h.now().UTC()
	msg := &models.ContactMessage{
		ID:          uuid.New().String(),
		SenderID:    identity.UserID,
		RecipientID: req.RecipientID,
		GigID:       req.GigID,
		Content:     req.Content,
		UpstreamID:  resp.ID,
		CreatedAt:   sentAt,
	}

	out := &Output{
		MessageID:  msg.ID,
		UpstreamID: resp.ID,
		SentAt:     sentAt.Format(time.RFC3339),
	}

	out.Audited = h.audit(ctx, msg)
	out.EventID = h.publish(ctx, msg)
	out.EmailSent = h.email(ctx, msg, identity)

	if req.IntentID != "" && h.deps.Intents != nil {
		if err := h.deps.Intents.MarkSent(ctx, req.IntentID); err != nil {
			h.logger.Warn("booking intent not closed", map[string]interface{}{
				"intentId": req.IntentID,
				"error":    err,
			})
		} else {
			out.IntentClosed = true
		}
	}

	h.logger.Info("contact message sent", map[string]interface{}{
		"messageId":   msg.ID,
		"upstreamId":  resp.ID,
		"recipientId": msg.RecipientID,
		"audited":     out.Audited,
		"emailSent":   out.EmailSent,
	})
	return out, nil
}

func (h *Handler) audit(ctx context.Context, msg *models.ContactMessage) bool {
	if h.deps.DB == nil {
		return false
	}

	var gigID interface{}
	if msg.GigID != "" {
		gigID = msg.GigID
	}

	_, err := h.deps.DB.Exec(ctx, `
		INSERT INTO contact_messages (
			id, sender_id, recipient_id, gig_id, content, upstream_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		msg.ID,
		msg.SenderID,
		msg.RecipientID,
		gigID,
		msg.Content,
		msg.UpstreamID,
		msg.CreatedAt,
	)
	if err != nil {
		h.logger.Warn("contact message audit failed", map[string]interface{}{
			"messageId": msg.ID,
			"error":     apperrors.NewDatabaseInsertFailedError(err),
		})
		return false
	}
	return true
}

func (h *Handler) publish(ctx context.Context, msg *models.ContactMessage) string {
	if h.deps.Events == nil {
		return ""
	}

	id, err := h.deps.Events.PublishEvent(ctx, h.config.EventType, contactEvent{
		MessageID:   msg.ID,
		UpstreamID:  msg.UpstreamID,
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		GigID:       msg.GigID,
		SentAt:      msg.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("sns", "failed").Inc()
		h.logger.Warn("contact event not published", map[string]interface{}{
			"messageId": msg.ID,
			"error":     apperrors.NewNotificationSendFailedError("sns", err),
		})
		return ""
	}
	metrics.NotificationsSent.WithLabelValues("sns", "sent").Inc()
	return id
}

func (h *Handler) email(ctx context.Context, msg *models.ContactMessage, sender *auth.Identity) bool {
	if h.deps.Email == nil {
		return false
	}

	recipient, err := h.backend.GetWorker(ctx, msg.RecipientID)
	if err != nil || recipient.Email == "" {
		if err != nil {
			h.logger.Debug("recipient lookup failed, skipping email", map[string]interface{}{
				"recipientId": msg.RecipientID,
				"error":       err,
			})
		}
		return false
	}

	from := sender.Name
	if from == "" {
		from = "A GigDial customer"
	}
	text := fmt.Sprintf("Hi %s,\n\n%s sent you a message:\n\n%s\n", recipient.Name, from, msg.Content)

	if _, err := h.deps.Email.SendText(ctx, recipient.Email, h.config.EmailSubject, text); err != nil {
		metrics.NotificationsSent.WithLabelValues("ses", "failed").Inc()
		h.logger.Warn("contact email not sent", map[string]interface{}{
			"messageId": msg.ID,
			"error":     apperrors.NewNotificationSendFailedError("ses", err),
		})
		return false
	}
	metrics.NotificationsSent.WithLabelValues("ses", "sent").Inc()
	return true
}
