package tasks

import (
	"time"

	"github.com/google/uuid"
)

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

// Priority orders tasks within a status column.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is the read model cached under cache.TaskKey.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       Status     `json:"status"`
	Priority     Priority   `json:"priority"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	IsCompleted  bool       `json:"isCompleted"`
	ProjectID    uuid.UUID  `json:"projectId"`
	CreatedByID  string     `json:"createdById"`
	AssignedToID string     `json:"assignedToId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreateParams carries the caller-supplied fields for a new task.
type CreateParams struct {
	Title        string
	Description  string
	Priority     Priority
	DueDate      *time.Time
	Tags         []string
	ProjectID    uuid.UUID
	AssignedToID string
}

// UpdateParams patches a task. Nil fields are left unchanged. Setting
// AssignedToID to the empty string unassigns the task, so the field is a
// pointer to tell "leave alone" apart from "clear".
type UpdateParams struct {
	Title        *string
	Description  *string
	Status       *Status
	Priority     *Priority
	DueDate      *time.Time
	Tags         *[]string
	AssignedToID *string
}
