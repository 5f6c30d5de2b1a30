package notifications

import "context"

// Store is the append-only per-user buffer of undelivered notifications.
// It is a fallback, not a journal: the router writes to it only when the
// recipient has no live channel.
type Store interface {
	// Append adds a notification to the end of the user's buffer.
	Append(ctx context.Context, userID string, n Notification) error

	// Drain returns the buffered notifications in insertion order and
	// clears the buffer atomically with the read. A second Drain without
	// an intervening Append returns an empty slice.
	Drain(ctx context.Context, userID string) ([]Notification, error)

	// Clear wipes the user's buffer without returning it. Used on
	// logout.
	Clear(ctx context.Context, userID string) error
}
