package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskhive/realtime/pkg/auth"
	"github.com/taskhive/realtime/pkg/projects"
	"github.com/taskhive/realtime/pkg/tasks"
)

// Router assembles the authenticated REST routes.
func Router(verifier auth.Verifier, projectSvc *projects.Service, taskSvc *tasks.Service, log *slog.Logger) http.Handler {
	projectsHandler := NewProjectsHandler(projectSvc, log)
	tasksHandler := NewTasksHandler(taskSvc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(authenticate(verifier))

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", projectsHandler.Create)
			r.Get("/", projectsHandler.List)
			r.Get("/{projectID}", projectsHandler.Get)
			r.Patch("/{projectID}", projectsHandler.Update)
			r.Delete("/{projectID}", projectsHandler.Delete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", tasksHandler.Create)
			r.Get("/", tasksHandler.List)
			r.Get("/{taskID}", tasksHandler.Get)
			r.Patch("/{taskID}", tasksHandler.Update)
			r.Delete("/{taskID}", tasksHandler.Delete)
		})
	})

	return r
}
