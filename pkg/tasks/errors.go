package tasks

import "errors"

var (
	// ErrTaskNotFound is returned when the task does not exist.
	ErrTaskNotFound = errors.New("tasks: task not found")

	// ErrAccessDenied is returned when the caller is neither the task's
	// creator or assignee nor the owner of its project.
	ErrAccessDenied = errors.New("tasks: access denied")

	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("tasks: invalid status")

	// ErrInvalidPriority is returned for a priority outside the known set.
	ErrInvalidPriority = errors.New("tasks: invalid priority")
)
