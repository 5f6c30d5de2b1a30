package projects

import (
	"context"

	"github.com/google/uuid"
)

// Store is the authoritative persistence layer for projects. The
// service never trusts the cache for mutations; every write path reads
// and writes through here.
type Store interface {
	Create(ctx context.Context, p Project) error
	Get(ctx context.Context, id uuid.UUID) (*Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Project, error)
	Update(ctx context.Context, p Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}
