// Package errors provides standardized error handling for the HTTP and BPMN surfaces.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamBadStatus   ErrorCode = "UPSTREAM_BAD_STATUS"
	ErrCodeUpstreamTimeout     ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeUpstreamDecode      ErrorCode = "UPSTREAM_DECODE_FAILED"

	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeWorkerNotFound   ErrorCode = "WORKER_NOT_FOUND"

	ErrCodeAuthRequired   ErrorCode = "AUTH_REQUIRED"
	ErrCodeAuthentication ErrorCode = "AUTHENTICATION_ERROR"

	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidRules ErrorCode = "INVALID_CATEGORY_RULES"

	ErrCodeIntentNotFound   ErrorCode = "INTENT_NOT_FOUND"
	ErrCodeIntentConsumed   ErrorCode = "INTENT_CONSUMED"
	ErrCodeIntentTransition ErrorCode = "INTENT_TRANSITION_INVALID"

	ErrCodeCacheFailed          ErrorCode = "CACHE_FAILED"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeIndexingFailed    ErrorCode = "INDEXING_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamUnavailableError wraps a transport failure talking to the backend.
func NewUpstreamUnavailableError(endpoint string, err error) *StandardError {
	return newError(ErrCodeUpstreamUnavailable, "Backend unavailable",
		fmt.Sprintf("endpoint: %s, error: %s", endpoint, err.Error()), true)
}

// NewUpstreamTimeoutError is returned when a backend call exceeds its deadline.
func NewUpstreamTimeoutError(endpoint string) *StandardError {
	return newError(ErrCodeUpstreamTimeout, "Backend request timed out",
		fmt.Sprintf("endpoint: %s", endpoint), true)
}

// NewUpstreamStatusError classifies a non-2xx backend response.
func NewUpstreamStatusError(endpoint string, status int, body string) *StandardError {
	details := fmt.Sprintf("endpoint: %s, status: %d, body: %s", endpoint, status, truncate(body, 512))
	var e *StandardError
	switch {
	case status == http.StatusNotFound:
		e = newError(ErrCodeResourceNotFound, "Resource not found", details, false)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e = newError(ErrCodeAuthentication, "Backend rejected credentials", details, false)
	case status >= 400 && status < 500:
		e = newError(ErrCodeUpstreamBadStatus, "Backend rejected request", details, false)
	default:
		e = newError(ErrCodeUpstreamBadStatus, "Backend error", details, true)
	}
	return e.WithMetadata("status", status)
}

// NewUpstreamDecodeError is returned when a 2xx body cannot be decoded.
func NewUpstreamDecodeError(endpoint string, err error) *StandardError {
	return newError(ErrCodeUpstreamDecode, "Malformed backend response",
		fmt.Sprintf("endpoint: %s, error: %s", endpoint, err.Error()), false)
}

func NewWorkerNotFoundError(workerID string) *StandardError {
	return newError(ErrCodeWorkerNotFound, "Worker not found",
		fmt.Sprintf("workerId: %s", workerID), false)
}

// NewAuthRequiredError carries a login URL that resumes the caller's intent.
func NewAuthRequiredError(loginURL string) *StandardError {
	e := newError(ErrCodeAuthRequired, "Authentication required", "", false)
	if loginURL != "" {
		e.WithMetadata("loginUrl", loginURL)
	}
	return e
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthentication, "Authentication failed", details, false)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid input", details, false)
}

func NewInvalidRulesError(details string) *StandardError {
	return newError(ErrCodeInvalidRules, "Invalid category rule table", details, false)
}

func NewIntentNotFoundError(intentID string) *StandardError {
	return newError(ErrCodeIntentNotFound, "Booking intent not found or expired",
		fmt.Sprintf("intentId: %s", intentID), false)
}

func NewIntentConsumedError(intentID string) *StandardError {
	return newError(ErrCodeIntentConsumed, "Booking intent already resumed",
		fmt.Sprintf("intentId: %s", intentID), false)
}

func NewIntentTransitionError(from, to string) *StandardError {
	return newError(ErrCodeIntentTransition, "Booking intent transition not allowed",
		fmt.Sprintf("from: %s, to: %s", from, to), false)
}

func NewCacheError(op string, err error) *StandardError {
	return newError(ErrCodeCacheFailed, "Cache operation failed",
		fmt.Sprintf("op: %s, error: %s", op, err.Error()), true)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert error", err.Error(), true)
}

func NewSearchQueryFailedError(err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Search query error", err.Error(), true)
}

func NewIndexingFailedError(err error) *StandardError {
	return newError(ErrCodeIndexingFailed, "Search indexing error", err.Error(), true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification send error",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// ==========================
// 4. Conversion
// ==========================

// AsStandard normalizes any error to a StandardError. Context deadline errors
// become upstream timeouts; everything unknown is an internal error.
func AsStandard(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	if strings.Contains(err.Error(), "context deadline exceeded") {
		return NewUpstreamTimeoutError("unknown")
	}
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// HasCode reports whether err is a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.Code == code
}

// HTTPStatus maps an error code to the status returned to the SPA.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidRules:
		return http.StatusBadRequest
	case ErrCodeAuthRequired, ErrCodeAuthentication:
		return http.StatusUnauthorized
	case ErrCodeResourceNotFound, ErrCodeWorkerNotFound, ErrCodeIntentNotFound:
		return http.StatusNotFound
	case ErrCodeIntentConsumed:
		return http.StatusGone
	case ErrCodeIntentTransition:
		return http.StatusConflict
	case ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUpstreamUnavailable, ErrCodeUpstreamBadStatus, ErrCodeUpstreamDecode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetRetryCount returns the recommended job retry count for the Zeebe surface.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeUpstreamUnavailable,
		ErrCodeUpstreamBadStatus,
		ErrCodeCacheFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeIndexingFailed,
		ErrCodeNotificationSendFailed:
		return 3
	case ErrCodeUpstreamTimeout:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "UPSTREAM"):
		return "UPSTREAM"
	case strings.Contains(codeStr, "AUTH"):
		return "AUTH"
	case strings.HasPrefix(codeStr, "INTENT"):
		return "BOOKING"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "CACHE"):
		return "STORAGE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
