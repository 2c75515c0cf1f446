// internal/workers/booking/booking-intent/models.go
package bookingintent

import (
	"time"

	"gigdial/internal/common/auth"
	"gigdial/internal/models"
)

// Actions accepted on the workflow surface.
const (
	ActionCreate  = "create"
	ActionResume  = "resume"
	ActionDismiss = "dismiss"
)

// Intent remembers which gig an anonymous visitor tried to book.
type Intent struct {
	ID        string    `json:"id"`
	GigID     string    `json:"gigId"`
	WorkerID  string    `json:"workerId"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateInput struct {
	GigID    string `json:"gigId"`
	WorkerID string `json:"workerId"`
}

type CreateOutput struct {
	IntentID string `json:"intentId"`
	LoginURL string `json:"loginUrl"`
	State    State  `json:"state"`
}

type ResumeOutput struct {
	IntentID   string      `json:"intentId"`
	OpenDialog bool        `json:"openDialog"`
	Gig        *models.Gig `json:"gig,omitempty"`
	State      State       `json:"state"`
}

type DismissOutput struct {
	IntentID string `json:"intentId"`
	State    State  `json:"state"`
}

// Input is the job payload. Identity stands in for the HTTP session.
type Input struct {
	Action   string         `json:"action"`
	IntentID string         `json:"intentId"`
	GigID    string         `json:"gigId"`
	WorkerID string         `json:"workerId"`
	Identity *auth.Identity `json:"identity,omitempty"`
}

type Output struct {
	IntentID   string      `json:"intentId"`
	LoginURL   string      `json:"loginUrl,omitempty"`
	OpenDialog bool        `json:"openDialog"`
	Gig        *models.Gig `json:"gig,omitempty"`
	State      State       `json:"state"`
}
