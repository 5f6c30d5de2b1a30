package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskhive/realtime/pkg/logger"
	"github.com/taskhive/realtime/pkg/tasks"
)

// TasksHandler serves /api/tasks.
type TasksHandler struct {
	service *tasks.Service
	log     *slog.Logger
}

// NewTasksHandler creates the handler.
func NewTasksHandler(service *tasks.Service, log *slog.Logger) *TasksHandler {
	return &TasksHandler{service: service, log: log}
}

type createTaskRequest struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Priority     tasks.Priority `json:"priority"`
	DueDate      *time.Time     `json:"dueDate"`
	Tags         []string       `json:"tags"`
	ProjectID    uuid.UUID      `json:"projectId"`
	AssignedToID string         `json:"assignedToId"`
}

type updateTaskRequest struct {
	Title        *string         `json:"title"`
	Description  *string         `json:"description"`
	Status       *tasks.Status   `json:"status"`
	Priority     *tasks.Priority `json:"priority"`
	DueDate      *time.Time      `json:"dueDate"`
	Tags         *[]string       `json:"tags"`
	AssignedToID *string         `json:"assignedToId"`
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.ProjectID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "projectId is required")
		return
	}

	task, err := h.service.Create(r.Context(), identity.UserID, tasks.CreateParams{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		Tags:         req.Tags,
		ProjectID:    req.ProjectID,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		h.fail(w, r, err, "create task")
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// List returns the caller's tasks, or a project's tasks when the
// project query parameter is present.
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	if raw := r.URL.Query().Get("project"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid project id")
			return
		}
		list, err := h.service.ListByProject(r.Context(), identity.UserID, projectID)
		if err != nil {
			h.fail(w, r, err, "list project tasks")
			return
		}
		respondJSON(w, http.StatusOK, list)
		return
	}

	list, err := h.service.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		h.fail(w, r, err, "list tasks")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.service.Get(r.Context(), identity.UserID, id)
	if err != nil {
		h.fail(w, r, err, "get task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.service.Update(r.Context(), identity.UserID, id, tasks.UpdateParams{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		Tags:         req.Tags,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		h.fail(w, r, err, "update task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, id); err != nil {
		h.fail(w, r, err, "delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TasksHandler) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	status, message := statusForError(err)
	if status == http.StatusInternalServerError {
		h.log.Error("task handler failure",
			logger.Component("api"),
			slog.String("op", op),
			logger.Error(err),
		)
	}
	respondError(w, status, message)
}
