package errors

import (
	"encoding/json"
	"net/http"
)

// errorEnvelope is the JSON body returned to the SPA on failure.
type errorEnvelope struct {
	Error *StandardError `json:"error"`
}

// WriteHTTPError renders err as a JSON error envelope with the status from ResponseStatus.
func WriteHTTPError(w http.ResponseWriter, err error) *StandardError {
	stdErr := AsStandard(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ResponseStatus(stdErr))
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: stdErr})
	return stdErr
}

// ResponseStatus is HTTPStatus(e.Code), except that a client error reported
// by the backend (e.g. 409 on a duplicate registration) is passed through.
func ResponseStatus(e *StandardError) int {
	if e.Code == ErrCodeUpstreamBadStatus {
		if status, ok := e.Metadata["status"].(int); ok && status >= 400 && status < 500 {
			return status
		}
	}
	return HTTPStatus(e.Code)
}
