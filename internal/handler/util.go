package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/plantpals/messaging/internal/backend"
	"github.com/plantpals/messaging/internal/service"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeServiceError maps the messaging error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var fetchErr *service.FetchFailedError
	var sendErr *service.SendFailedError

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, service.ErrEmptyContent):
		writeError(w, http.StatusBadRequest, "message content is empty")
	case errors.Is(err, service.ErrNoActiveConversation):
		writeError(w, http.StatusBadRequest, "no conversation selected")
	case errors.Is(err, backend.ErrNotFound):
		writeError(w, http.StatusNotFound, "conversation not found")
	case errors.As(err, &fetchErr):
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":     "fetch failed, retry",
			"resource":  fetchErr.Resource,
			"retryable": true,
		})
	case errors.As(err, &sendErr):
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":     "send failed, message not delivered",
			"retryable": true,
		})
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
