package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"qpcrcli/internal/qpcr"
)

// APIError is the structured error body returned by the HTTP API.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, code, message string) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: message}
}

var (
	errInvalidRequest    = newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	errRateLimitExceeded = newAPIError(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
)

// analysisError maps pipeline failures onto API errors. Schema and
// configuration problems are the client's data, not server faults.
func analysisError(err error) *APIError {
	var schemaErr *qpcr.SchemaError
	if errors.As(err, &schemaErr) {
		return &APIError{
			StatusCode: http.StatusUnprocessableEntity,
			ErrorCode:  "SCHEMA_ERROR",
			Message:    "Dataset is missing required columns",
			Details:    schemaErr.Missing,
		}
	}
	var cfgErr *qpcr.ConfigurationError
	if errors.As(err, &cfgErr) {
		return &APIError{
			StatusCode: http.StatusUnprocessableEntity,
			ErrorCode:  "CONFIGURATION_ERROR",
			Message:    cfgErr.Error(),
		}
	}
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  "ANALYSIS_FAILED",
		Message:    "Analysis failed",
		Details:    err.Error(),
	}
}
