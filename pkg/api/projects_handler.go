package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskhive/realtime/pkg/logger"
	"github.com/taskhive/realtime/pkg/projects"
)

// ProjectsHandler serves /api/projects.
type ProjectsHandler struct {
	service *projects.Service
	log     *slog.Logger
}

// NewProjectsHandler creates the handler.
func NewProjectsHandler(service *projects.Service, log *slog.Logger) *ProjectsHandler {
	return &ProjectsHandler{service: service, log: log}
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	project, err := h.service.Create(r.Context(), identity.UserID, projects.CreateParams{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.fail(w, r, err, "create project")
		return
	}
	respondJSON(w, http.StatusCreated, project)
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	list, err := h.service.ListByOwner(r.Context(), identity.UserID)
	if err != nil {
		h.fail(w, r, err, "list projects")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	project, err := h.service.Get(r.Context(), identity.UserID, id)
	if err != nil {
		h.fail(w, r, err, "get project")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.service.Update(r.Context(), identity.UserID, id, projects.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.fail(w, r, err, "update project")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, id); err != nil {
		h.fail(w, r, err, "delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectsHandler) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	status, message := statusForError(err)
	if status == http.StatusInternalServerError {
		h.log.Error("project handler failure",
			logger.Component("api"),
			slog.String("op", op),
			logger.Error(err),
		)
	}
	respondError(w, status, message)
}
