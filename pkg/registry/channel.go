package registry

import (
	"context"

	"github.com/google/uuid"
)

// Event is the wire envelope pushed to live channels.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Channel is one live, addressable connection from a client.
// Implementations are owned by the transport (see pkg/gateway); the
// registry only tracks and addresses them.
//
// Send must not block on a slow client: implementations queue the event
// or return an error, and the caller treats a failed send as a skipped
// delivery, never a failed operation.
type Channel interface {
	ID() uuid.UUID
	UserID() string
	Send(ctx context.Context, ev Event) error
	Close() error
}

// UserRoom returns the personal room identifier for a user. Every
// channel joins it on registration, which is what makes direct-to-user
// delivery a plain room send.
func UserRoom(userID string) string {
	return "user:" + userID
}

// ProjectRoom returns the room identifier for a project's viewers.
func ProjectRoom(projectID string) string {
	return "project:" + projectID
}
