package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/realtime/pkg/logger"
	"github.com/taskhive/realtime/pkg/registry"
)

// Router fans outbound events out to live channels. It asks the registry
// which channels are live and falls back to the store when a direct
// recipient is offline.
type Router struct {
	registry *registry.Registry
	store    Store
	log      *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRouterLogger sets the logger used for skipped deliveries.
func WithRouterLogger(log *slog.Logger) RouterOption {
	return func(r *Router) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRouter creates a router over the given connection table and
// fallback buffer.
func NewRouter(reg *registry.Registry, store Store, opts ...RouterOption) *Router {
	r := &Router{
		registry: reg,
		store:    store,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NotifyUser delivers the notification to every live channel of the
// user, or buffers it when none exist. Live delivery and buffering are
// mutually exclusive: a notification delivered live never shows up in a
// later drain.
//
// Send failures on individual channels are logged and skipped; only a
// buffer append failure is reported, because losing the fallback copy
// would silently drop the notification.
func (r *Router) NotifyUser(ctx context.Context, userID string, n Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	n.UserID = userID

	channels := r.registry.ChannelsFor(userID)
	if len(channels) == 0 {
		if err := r.store.Append(ctx, userID, n); err != nil {
			return fmt.Errorf("buffer notification for user %s: %w", userID, err)
		}
		r.log.Debug("notification buffered",
			logger.Component("router"),
			logger.NotificationID(n.ID),
			logger.UserID(userID),
		)
		return nil
	}

	ev := registry.Event{Name: EventNotification, Data: n}
	for _, ch := range channels {
		if err := ch.Send(ctx, ev); err != nil {
			r.log.Warn("failed to deliver notification to channel",
				logger.Component("router"),
				logger.NotificationID(n.ID),
				logger.UserID(userID),
				logger.ChannelID(ch.ID()),
				logger.Error(err),
			)
		}
	}
	return nil
}

// NotifyRoom delivers a named event to every channel currently in the
// room. Broadcasts are presence-based: absent members are not buffered,
// and an empty room is a silent no-op.
func (r *Router) NotifyRoom(ctx context.Context, room, event string, payload any) {
	r.send(ctx, r.registry.ChannelsInRoom(room), registry.Event{Name: event, Data: payload})
}

// BroadcastAll delivers a named event to every live channel. Same
// ephemeral semantics as NotifyRoom.
func (r *Router) BroadcastAll(ctx context.Context, event string, payload any) {
	r.send(ctx, r.registry.AllChannels(), registry.Event{Name: event, Data: payload})
}

func (r *Router) send(ctx context.Context, channels []registry.Channel, ev registry.Event) {
	for _, ch := range channels {
		if err := ch.Send(ctx, ev); err != nil {
			r.log.Warn("failed to deliver broadcast to channel",
				logger.Component("router"),
				logger.Event(ev.Name),
				logger.ChannelID(ch.ID()),
				logger.Error(err),
			)
		}
	}
}
