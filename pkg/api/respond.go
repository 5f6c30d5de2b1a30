package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskhive/realtime/pkg/auth"
	"github.com/taskhive/realtime/pkg/projects"
	"github.com/taskhive/realtime/pkg/tasks"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// statusForError maps service errors onto HTTP statuses. Unknown errors
// collapse to 500 with a generic message so internals never leak to the
// client.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, projects.ErrProjectNotFound):
		return http.StatusNotFound, "project not found"
	case errors.Is(err, tasks.ErrTaskNotFound):
		return http.StatusNotFound, "task not found"
	case errors.Is(err, projects.ErrAccessDenied), errors.Is(err, tasks.ErrAccessDenied):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, tasks.ErrInvalidStatus):
		return http.StatusBadRequest, "invalid status"
	case errors.Is(err, tasks.ErrInvalidPriority):
		return http.StatusBadRequest, "invalid priority"
	case errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized, "invalid token"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
