package projects

import "errors"

var (
	// ErrProjectNotFound is returned when the project does not exist.
	ErrProjectNotFound = errors.New("projects: project not found")

	// ErrAccessDenied is returned when the caller does not own the
	// project.
	ErrAccessDenied = errors.New("projects: access denied")
)
