package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"fleetmaster/internal/interfaces"
	"fleetmaster/internal/logger"
	"fleetmaster/internal/models"
	"fleetmaster/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respond writes a successful envelope whose statusCode mirrors the HTTP status.
func respond[T any](w http.ResponseWriter, status int, message string, data T) {
	writeJSON(w, status, models.Success(status, message, data))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.Failure(status, message))
}

// writeServiceError maps the service error taxonomy onto the envelope.
// Anything unrecognised is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *services.ValidationError
		conflict   *services.ConflictError
		blocked    *interfaces.DeletionBlockedError
	)
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &conflict):
		writeError(w, http.StatusBadRequest, conflict.Message)
	case errors.As(err, &blocked):
		writeJSON(w, http.StatusConflict, models.Response[map[string]int64]{
			IsSuccess:  false,
			Message:    blocked.Error(),
			Data:       blocked.References,
			StatusCode: http.StatusConflict,
		})
	case errors.Is(err, services.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Too many reset requests, try again later")
	default:
		logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
