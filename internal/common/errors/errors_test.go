package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpstreamStatusError_Classification(t *testing.T) {
	tests := []struct {
		status    int
		code      ErrorCode
		retryable bool
	}{
		{http.StatusNotFound, ErrCodeResourceNotFound, false},
		{http.StatusUnauthorized, ErrCodeAuthentication, false},
		{http.StatusForbidden, ErrCodeAuthentication, false},
		{http.StatusUnprocessableEntity, ErrCodeUpstreamBadStatus, false},
		{http.StatusServiceUnavailable, ErrCodeUpstreamBadStatus, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := NewUpstreamStatusError("/api/gigs", tt.status, "body")
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.retryable, err.Retryable)
			assert.Equal(t, tt.status, err.Metadata["status"])
		})
	}
}

func TestAsStandard(t *testing.T) {
	assert.Nil(t, AsStandard(nil))

	wrapped := fmt.Errorf("fetch: %w", NewWorkerNotFoundError("w-1"))
	assert.Equal(t, ErrCodeWorkerNotFound, AsStandard(wrapped).Code)
	assert.True(t, HasCode(wrapped, ErrCodeWorkerNotFound))

	assert.Equal(t, ErrCodeUpstreamTimeout, AsStandard(context.DeadlineExceeded).Code)
	assert.Equal(t, ErrCodeInternal, AsStandard(fmt.Errorf("boom")).Code)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusGone, HTTPStatus(ErrCodeIntentConsumed))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrCodeAuthRequired))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(ErrCodeUpstreamUnavailable))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(ErrCodeUpstreamTimeout))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrCodeWorkerNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodeInternal))
}

func TestWriteHTTPError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTTPError(rec, NewAuthRequiredError("/login?intent=abc"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Error struct {
			Code     string                 `json:"code"`
			Metadata map[string]interface{} `json:"metadata"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AUTH_REQUIRED", body.Error.Code)
	assert.Equal(t, "/login?intent=abc", body.Error.Metadata["loginUrl"])
}

func TestResponseStatus_PassesThroughBackendClientErrors(t *testing.T) {
	assert.Equal(t, http.StatusConflict, ResponseStatus(NewUpstreamStatusError("/api/users", 409, "exists")))
	assert.Equal(t, http.StatusBadGateway, ResponseStatus(NewUpstreamStatusError("/api/users", 503, "down")))
	assert.Equal(t, http.StatusNotFound, ResponseStatus(NewUpstreamStatusError("/api/users/workers/x", 404, "")))

	rec := httptest.NewRecorder()
	WriteHTTPError(rec, NewUpstreamStatusError("/api/users", 422, "bad email"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewUpstreamUnavailableError("/api/gigs", fmt.Errorf("refused")))
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", bpmn.Code)
	assert.Equal(t, 3, bpmn.Retries)

	bpmn = ConvertToBPMNError(NewInvalidInputError("title required"))
	assert.Equal(t, 0, bpmn.Retries)
	assert.Equal(t, "INVALID_INPUT", bpmn.ToErrorVariables()["errorCode"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "UPSTREAM", GetErrorCategory(ErrCodeUpstreamBadStatus))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeAuthRequired))
	assert.Equal(t, "BOOKING", GetErrorCategory(ErrCodeIntentConsumed))
	assert.Equal(t, "NOT_FOUND", GetErrorCategory(ErrCodeWorkerNotFound))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeCacheFailed))
}
