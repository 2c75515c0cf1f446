// internal/workers/catalog/aggregate-gig-rows/models.go
package aggregategigrows

import (
	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/models"
	classifycategory "gigdial/internal/workers/catalog/classify-category"
)

const (
	StateReady = "ready"
	StateError = "error"
)

// Card is the flattened gig the SPA renders.
type Card struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Rating   string  `json:"rating"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Bookings int     `json:"bookings"`
	WorkerID string  `json:"workerId,omitempty"`
}

type Row struct {
	Key   classifycategory.Bucket `json:"key"`
	Title string                  `json:"title"`
	Cards []Card                  `json:"cards"`
}

// Rows is the aggregated catalog. On failure every row is present and empty.
type Rows struct {
	Rows      []Row                    `json:"rows"`
	State     string                   `json:"state"`
	Retryable bool                     `json:"retryable"`
	Error     *apperrors.StandardError `json:"error,omitempty"`
}

// Input lets a process supply gigs directly; when empty they are fetched.
type Input struct {
	Gigs []models.Gig `json:"gigs,omitempty"`
}

type Output struct {
	Rows
}
