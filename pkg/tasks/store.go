package tasks

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskhive/realtime/pkg/projects"
)

// Store is the authoritative persistence layer for tasks.
type Store interface {
	Create(ctx context.Context, t Task) error
	Get(ctx context.Context, id uuid.UUID) (*Task, error)
	ListByUser(ctx context.Context, userID string) ([]Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Task, error)
	Update(ctx context.Context, t Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectDirectory resolves a task's project for access checks. The
// project service satisfies it with its cached read path.
type ProjectDirectory interface {
	Resolve(ctx context.Context, id uuid.UUID) (*projects.Project, error)
}
