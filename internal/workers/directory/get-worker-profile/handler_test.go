// internal/workers/directory/get-worker-profile/handler_test.go
package getworkerprofile

import (
	"context"
	"sync/atomic"
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

type MockProfileBackend struct {
	Worker    *models.WorkerProfile
	WorkerErr error
	Gigs      []models.Gig
	GigsErr   error
	// GigsDelay holds the gig fetch back so the worker fetch finishes first.
	GigsDelay time.Duration

	inflight int32
	overlap  int32
}

func (m *MockProfileBackend) enter() {
	if atomic.AddInt32(&m.inflight, 1) > 1 {
		atomic.StoreInt32(&m.overlap, 1)
	}
}

func (m *MockProfileBackend) leave() { atomic.AddInt32(&m.inflight, -1) }

func (m *MockProfileBackend) GetWorker(ctx context.Context, workerID string) (*models.WorkerProfile, error) {
	m.enter()
	defer m.leave()
	time.Sleep(20 * time.Millisecond)
	return m.Worker, m.WorkerErr
}

func (m *MockProfileBackend) ListWorkerGigs(ctx context.Context, workerID string) ([]models.Gig, error) {
	m.enter()
	defer m.leave()
	time.Sleep(20*time.Millisecond + m.GigsDelay)
	return m.Gigs, m.GigsErr
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 2 * time.Second, PlaceholderImage: "placeholder.png"}
}

func createTestHandler(t *testing.T, backend *MockProfileBackend) *Handler {
	return NewHandler(createTestConfig(), backend, logger.NewTestLogger(t))
}

func amit() *models.WorkerProfile {
	return &models.WorkerProfile{ID: "w-1", Name: "Amit", Skills: []string{"Plumbing"}}
}

// ==========================
// Tests
// ==========================

func TestExecute_Profile(t *testing.T) {
	rating := 4.5
	backend := &MockProfileBackend{
		Worker: amit(),
		Gigs: []models.Gig{
			{ID: "g-1", Title: "Pipe Fix", Category: "Plumbing", Price: 300, Rating: &rating},
			{ID: "g-2", Title: "Tap Install", Category: "Plumbing", Price: 150},
		},
	}

	out, err := createTestHandler(t, backend).Execute(context.Background(), &Input{WorkerID: "w-1"})
	require.NoError(t, err)

	assert.Equal(t, "Amit", out.Worker.Name)
	assert.False(t, out.GigsUnavailable)
	require.Len(t, out.Gigs, 2)
	assert.Equal(t, "4.5", out.Gigs[0].Rating)
	assert.Equal(t, "0", out.Gigs[1].Rating)
	assert.Equal(t, "placeholder.png", out.Gigs[1].Image)
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.overlap), "fetches should run concurrently")
}

func TestExecute_WorkerNotFound(t *testing.T) {
	backend := &MockProfileBackend{
		WorkerErr: apperrors.NewUpstreamStatusError("/api/users/workers/w-9", 404, "not found"),
	}

	_, err := createTestHandler(t, backend).Execute(context.Background(), &Input{WorkerID: "w-9"})
	require.Error(t, err)

	stdErr := apperrors.AsStandard(err)
	assert.Equal(t, apperrors.ErrCodeWorkerNotFound, stdErr.Code)
	assert.Equal(t, BackPath, stdErr.Metadata["back"])
	assert.Equal(t, 404, apperrors.HTTPStatus(stdErr.Code))
}

func TestExecute_WorkerTransportFailureIsNotFound(t *testing.T) {
	backend := &MockProfileBackend{
		WorkerErr: apperrors.NewUpstreamUnavailableError("/api/users/workers/w-1", assert.AnError),
		Gigs:      []models.Gig{{ID: "g-1"}},
	}

	_, err := createTestHandler(t, backend).Execute(context.Background(), &Input{WorkerID: "w-1"})
	stdErr := apperrors.AsStandard(err)
	assert.Equal(t, apperrors.ErrCodeWorkerNotFound, stdErr.Code)
	assert.Equal(t, string(apperrors.ErrCodeUpstreamUnavailable), stdErr.Metadata["cause"])
}

func TestExecute_GigsDegrade(t *testing.T) {
	backend := &MockProfileBackend{
		Worker:  amit(),
		GigsErr: apperrors.NewUpstreamStatusError("/api/gigs/worker/w-1", 500, "boom"),
	}

	out, err := createTestHandler(t, backend).Execute(context.Background(), &Input{WorkerID: "w-1"})
	require.NoError(t, err)
	assert.True(t, out.GigsUnavailable)
	assert.Empty(t, out.Gigs)
	assert.NotNil(t, out.Gigs)
}

func TestExecute_CompletionOrderDoesNotMatter(t *testing.T) {
	backend := &MockProfileBackend{
		Worker:    amit(),
		Gigs:      []models.Gig{{ID: "g-1", Title: "Pipe Fix"}},
		GigsDelay: 50 * time.Millisecond,
	}

	out, err := createTestHandler(t, backend).Execute(context.Background(), &Input{WorkerID: "w-1"})
	require.NoError(t, err)
	require.Len(t, out.Gigs, 1)
	assert.Equal(t, "g-1", out.Gigs[0].ID)
}

func TestExecute_MissingWorkerID(t *testing.T) {
	_, err := createTestHandler(t, &MockProfileBackend{}).Execute(context.Background(), &Input{WorkerID: "  "})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}
