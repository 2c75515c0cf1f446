// internal/workers/accounts/register-user/handler_test.go
package registeruser

import (
	"context"
	"net/http"
	"testing"
	"time"

	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/common/validation"
	"gigdial/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockRegistrar struct {
	Err  error
	Last *models.Registration
}

func (m *MockRegistrar) RegisterUser(ctx context.Context, reg models.Registration) (*models.RegisteredUser, error) {
	m.Last = &reg
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.RegisteredUser{ID: "u-1", Name: reg.Name, Email: reg.Email, IsProvider: reg.IsProvider}, nil
}

func createTestHandler(t *testing.T, r *MockRegistrar) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, r, validation.MustNewRegistry(), logger.NewTestLogger(t))
}

func TestExecute_Customer(t *testing.T) {
	r := &MockRegistrar{}
	out, err := createTestHandler(t, r).Execute(context.Background(), &Input{
		Name:     " Priya ",
		Email:    "Priya@Example.com",
		Password: "s3cret-pass",
		Skills:   []string{"ignored"},
	})
	require.NoError(t, err)

	assert.Equal(t, "u-1", out.User.ID)
	assert.Equal(t, "priya@example.com", r.Last.Email)
	assert.Equal(t, "Priya", r.Last.Name)
	assert.Nil(t, r.Last.Skills)
}

func TestExecute_Provider(t *testing.T) {
	r := &MockRegistrar{}
	out, err := createTestHandler(t, r).Execute(context.Background(), &Input{
		Name:       "Amit",
		Email:      "amit@example.com",
		Password:   "pipes-and-taps",
		IsProvider: true,
		Skills:     []string{"Plumbing"},
		City:       "Pune",
	})
	require.NoError(t, err)
	assert.True(t, out.User.IsProvider)
	assert.Equal(t, []string{"Plumbing"}, r.Last.Skills)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{"short password", Input{Name: "Amit", Email: "amit@example.com", Password: "short"}},
		{"bad email", Input{Name: "Amit", Email: "not-an-email", Password: "long-enough"}},
		{"provider without skills", Input{Name: "Amit", Email: "amit@example.com", Password: "long-enough", IsProvider: true}},
		{"missing name", Input{Email: "amit@example.com", Password: "long-enough"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &MockRegistrar{}
			input := tt.input
			_, err := createTestHandler(t, r).Execute(context.Background(), &input)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
			assert.Nil(t, r.Last)
		})
	}
}

func TestExecute_UpstreamStatusPropagates(t *testing.T) {
	r := &MockRegistrar{Err: apperrors.NewUpstreamStatusError("/api/users", 409, `{"message":"email taken"}`)}
	_, err := createTestHandler(t, r).Execute(context.Background(), &Input{
		Name: "Amit", Email: "amit@example.com", Password: "long-enough",
	})

	stdErr := apperrors.AsStandard(err)
	require.NotNil(t, stdErr)
	assert.Equal(t, http.StatusConflict, apperrors.ResponseStatus(stdErr))
}
