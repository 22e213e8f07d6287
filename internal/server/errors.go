package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/KaramelBytes/tabclean/internal/table"
)

// APIError is the JSON error body.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	RunID      string `json:"run_id,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	e.RunID = w.Header().Get(RunIDHeader)
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, code, msg string, details any) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: msg, Details: details}
}

func invalidParameter(field string, err error) *APIError {
	return newAPIError(http.StatusBadRequest, "INVALID_PARAMETER", "invalid value for "+field, err.Error())
}

// toAPIError maps loader and upload errors onto status codes.
func toAPIError(err error) *APIError {
	var pe *table.ParseError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return newAPIError(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "upload exceeds the size limit", err.Error())
	case errors.As(err, &pe):
		return newAPIError(http.StatusUnprocessableEntity, "UNPARSEABLE_UPLOAD", "file could not be parsed as "+string(pe.Format), pe.Err.Error())
	default:
		return newAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error", nil)
	}
}
