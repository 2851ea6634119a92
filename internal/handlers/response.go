// Package handlers implements the JSON resource controllers for the blog
// API. Each handler group orchestrates validation, store operations, and
// response shaping; HTTP routing and auth gating live in the router.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"inkpress/internal/apperror"
	"inkpress/internal/models"
)

// envelope is the response shape shared by every API endpoint.
type envelope struct {
	Success    bool                  `json:"success"`
	Data       any                   `json:"data,omitempty"`
	Message    string                `json:"message,omitempty"`
	Error      string                `json:"error,omitempty"`
	Errors     []apperror.FieldError `json:"errors,omitempty"`
	Pagination *models.Pagination    `json:"pagination,omitempty"`
}

// writeJSON sends the envelope with the given status code.
func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeData sends a success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeError maps a domain error to its HTTP status code and failure
// envelope. Unexpected errors are logged and reported as a generic server
// error so internal details never reach the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, http.StatusBadRequest, envelope{Success: false, Errors: appErr.Fields})
			return
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrDuplicate),
			errors.Is(err, apperror.ErrHasDependents),
			errors.Is(err, apperror.ErrUploadRejected):
			status = http.StatusBadRequest
		}
		writeJSON(w, status, envelope{Success: false, Error: appErr.Message})
		return
	}

	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Error: "server error"})
}
