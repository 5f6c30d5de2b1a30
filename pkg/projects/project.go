package projects

import (
	"time"

	"github.com/google/uuid"
)

// Project is the read model cached under cache.ProjectKey.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	OwnerID     string    `json:"ownerId"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateParams carries the caller-supplied fields for a new project.
type CreateParams struct {
	Name        string
	Description string
	Color       string
}

// UpdateParams patches a project. Nil fields are left unchanged.
type UpdateParams struct {
	Name        *string
	Description *string
	Color       *string
	IsActive    *bool
}
