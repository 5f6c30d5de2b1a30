package notifications

import (
	"time"
)

// Type enumerates the event kinds a notification can carry.
type Type string

const (
	TypeTaskCreated    Type = "TASK_CREATED"
	TypeTaskUpdated    Type = "TASK_UPDATED"
	TypeTaskAssigned   Type = "TASK_ASSIGNED"
	TypeTaskCompleted  Type = "TASK_COMPLETED"
	TypeProjectCreated Type = "PROJECT_CREATED"
	TypeProjectUpdated Type = "PROJECT_UPDATED"
)

// Wire event names shared with the gateway.
const (
	// EventNotification carries a single notification to a user's
	// personal channel set.
	EventNotification = "notification"
	// EventNotificationBatch carries the buffered backlog drained on a
	// successful connect.
	EventNotificationBatch = "notifications"
)

// Notification is an immutable record of one event addressed to one
// user. Data carries the mutated entity snapshot, opaque to this layer.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	UserID    string    `json:"userId"`
	Data      any       `json:"data,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
