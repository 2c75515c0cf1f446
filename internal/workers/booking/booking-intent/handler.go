// internal/workers/booking/booking-intent/handler.go
package bookingintent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gigdial/internal/common/auth"
	"gigdial/internal/common/camunda"
	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	TaskType = "booking-intent"
)

// WorkerGigLister lists the gigs a worker currently offers.
type WorkerGigLister interface {
	ListWorkerGigs(ctx context.Context, workerID string) ([]models.Gig, error)
}

type Handler struct {
	config *Config
	store  Store
	gigs   WorkerGigLister
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, store Store, gigs WorkerGigLister, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		gigs:   gigs,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:    time.Now,
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

// Execute dispatches a workflow job to the matching step.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Identity != nil {
		ctx = auth.WithSession(ctx, auth.Session{Identity: input.Identity})
	}

	switch input.Action {
	case ActionCreate:
		out, err := h.Create(ctx, &CreateInput{GigID: input.GigID, WorkerID: input.WorkerID})
		if err != nil {
			return nil, err
		}
		return &Output{IntentID: out.IntentID, LoginURL: out.LoginURL, State: out.State}, nil
	case ActionResume:
		out, err := h.Resume(ctx, input.IntentID)
		if err != nil {
			return nil, err
		}
		return &Output{IntentID: out.IntentID, OpenDialog: out.OpenDialog, Gig: out.Gig, State: out.State}, nil
	case ActionDismiss:
		out, err := h.Dismiss(ctx, input.IntentID)
		if err != nil {
			return nil, err
		}
		return &Output{IntentID: out.IntentID, State: out.State}, nil
	default:
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unknown action %q", input.Action))
	}
}

// Create remembers which gig the visitor wanted and returns the login
// redirect that brings them back to it.
func (h *Handler) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	gigID := strings.TrimSpace(input.GigID)
	workerID := strings.TrimSpace(input.WorkerID)
	if gigID == "" || workerID == "" {
		return nil, apperrors.NewInvalidInputError("gigId and workerId are required")
	}

	state, err := Transition(StateAnonymousBrowsing, StatePendingAuth)
	if err != nil {
		return nil, err
	}

	intent := &Intent{
		ID:        uuid.NewString(),
		GigID:     gigID,
		WorkerID:  workerID,
		State:     state,
		CreatedAt: h.now().UTC(),
	}
	if err := h.store.Save(ctx, intent); err != nil {
		return nil, err
	}

	h.logger.Info("booking intent created", map[string]interface{}{
		"intentId": intent.ID,
		"gigId":    gigID,
		"workerId": workerID,
	})

	return &CreateOutput{
		IntentID: intent.ID,
		LoginURL: h.loginURL(intent),
		State:    intent.State,
	}, nil
}

// Resume awaits the caller's identity and the worker's gig list together,
// then consumes the intent once. The dialog opens only when the gig is
// still offered.
func (h *Handler) Resume(ctx context.Context, intentID string) (*ResumeOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	// Identity is checked before the intent is read.
	if _, ok := auth.CurrentIdentity(ctx); !ok {
		return nil, h.authRequired(ctx, intentID)
	}

	intent, err := h.store.Peek(ctx, intentID)
	if err != nil {
		return nil, err
	}

	var (
		identity *auth.Identity
		gigs     []models.Gig
		identErr error
		gigsErr  error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		identity, identErr = auth.RequireIdentity(gctx, h.loginURL(intent))
		return identErr
	})
	g.Go(func() error {
		gigs, gigsErr = h.gigs.ListWorkerGigs(gctx, intent.WorkerID)
		return gigsErr
	})
	_ = g.Wait()

	if identErr != nil {
		return nil, identErr
	}
	if gigsErr != nil {
		return nil, gigsErr
	}

	consumed, err := h.store.Consume(ctx, intentID)
	if err != nil {
		return nil, err
	}

	out := &ResumeOutput{IntentID: intentID, State: consumed.State}
	for i := range gigs {
		if gigs[i].ID == consumed.GigID {
			out.Gig = &gigs[i]
			out.OpenDialog = true
			break
		}
	}

	h.logger.Info("booking intent resumed", map[string]interface{}{
		"intentId":   intentID,
		"userId":     identity.UserID,
		"gigId":      consumed.GigID,
		"openDialog": out.OpenDialog,
	})
	return out, nil
}

// Dismiss records that the resumed dialog was closed without sending.
func (h *Handler) Dismiss(ctx context.Context, intentID string) (*DismissOutput, error) {
	if _, err := auth.RequireIdentity(ctx, auth.LoginURL(h.config.LoginPath, "", intentID)); err != nil {
		return nil, err
	}

	intent, err := h.store.Advance(ctx, intentID, StateDismissed)
	if err != nil {
		return nil, err
	}
	return &DismissOutput{IntentID: intent.ID, State: intent.State}, nil
}

// MarkSent closes the intent after a contact message went out.
func (h *Handler) MarkSent(ctx context.Context, intentID string) error {
	_, err := h.store.Advance(ctx, intentID, StateMessageSent)
	return err
}

// authRequired returns AUTH_REQUIRED with a login URL that resumes intentID.
// The worker page is only added when the intent is still pending.
func (h *Handler) authRequired(ctx context.Context, intentID string) error {
	loginURL := auth.LoginURL(h.config.LoginPath, "", intentID)
	if intent, err := h.store.Peek(ctx, intentID); err == nil {
		loginURL = h.loginURL(intent)
	}
	_, err := auth.RequireIdentity(ctx, loginURL)
	return err
}

func (h *Handler) loginURL(intent *Intent) string {
	return auth.LoginURL(h.config.LoginPath, "/workers/"+intent.WorkerID, intent.ID)
}
