// internal/workers/directory/list-approved-workers/handler_test.go
package listapprovedworkers

import (
	"context"
	"testing"
	"time"

	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockWorkerLister struct {
	Workers []models.WorkerProfile
	Err     error
}

func (m *MockWorkerLister) ListApprovedWorkers(ctx context.Context) ([]models.WorkerProfile, error) {
	return m.Workers, m.Err
}

// ==========================
// Test Helper Functions
// ==========================

func sampleWorkers() []models.WorkerProfile {
	return []models.WorkerProfile{
		{ID: "w-1", Name: "Amit", Skills: []string{"Plumbing"}},
		{ID: "w-2", Name: "Sita", Skills: []string{"Electrical"}},
	}
}

func names(ws []models.WorkerProfile) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Name)
	}
	return out
}

func createTestHandler(t *testing.T, lister *MockWorkerLister) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, lister, logger.NewTestLogger(t))
}

// ==========================
// Filter
// ==========================

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{"search by name", "amit", "All", []string{"Amit"}},
		{"category only", "", "Electrical", []string{"Sita"}},
		{"all", "", "All", []string{"Amit", "Sita"}},
		{"empty category means all", "", "", []string{"Amit", "Sita"}},
		{"search by skill", "ELEC", "All", []string{"Sita"}},
		{"category is case-insensitive equality", "", "plumbing", []string{"Amit"}},
		{"category is not a substring match", "", "Plumb", []string{}},
		{"search and category both apply", "amit", "Electrical", []string{}},
		{"no match", "zoya", "All", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(sampleWorkers(), tt.search, tt.category)))
		})
	}
}

// ==========================
// Handler
// ==========================

func TestExecute(t *testing.T) {
	out, err := createTestHandler(t, &MockWorkerLister{Workers: sampleWorkers()}).Execute(context.Background(), &Input{Search: "amit", Category: CategoryAll})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "w-1", out.Workers[0].ID)
}

func TestExecute_UpstreamFailure(t *testing.T) {
	lister := &MockWorkerLister{Err: apperrors.NewUpstreamUnavailableError("/api/users/workers/approved", assert.AnError)}
	_, err := createTestHandler(t, lister).Execute(context.Background(), &Input{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUpstreamUnavailable))
}
