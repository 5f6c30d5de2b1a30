package registry

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/taskhive/realtime/pkg/logger"
)

// Registry is the process-scoped connection table. All methods are safe
// for concurrent use; each operation holds the lock only for the single
// map mutation being applied, never across I/O.
type Registry struct {
	mu       sync.RWMutex
	channels map[uuid.UUID]*entry
	rooms    map[string]map[uuid.UUID]struct{}
	closed   bool
	log      *slog.Logger
}

// entry tracks one registered channel and the rooms it joined, so
// unregistration can remove the membership edges without scanning every
// room.
type entry struct {
	ch    Channel
	rooms map[string]struct{}
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for swallowed-error reporting.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		channels: make(map[uuid.UUID]*entry),
		rooms:    make(map[string]map[uuid.UUID]struct{}),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register records the channel and auto-joins it to the owner's personal
// room. Registering an already-known channel ID is a silent no-op, so a
// channel ID can never appear under two users. Registering against a
// closed registry closes the channel instead.
func (r *Registry) Register(ch Channel) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		_ = ch.Close()
		return
	}
	if _, exists := r.channels[ch.ID()]; exists {
		r.mu.Unlock()
		return
	}

	e := &entry{
		ch:    ch,
		rooms: make(map[string]struct{}),
	}
	r.channels[ch.ID()] = e
	r.joinLocked(e, UserRoom(ch.UserID()))
	r.mu.Unlock()

	r.log.Debug("channel registered",
		logger.Component("registry"),
		logger.ChannelID(ch.ID()),
		logger.UserID(ch.UserID()),
	)
}

// Unregister removes the channel and all of its room memberships.
// Unknown channel IDs are a silent no-op.
func (r *Registry) Unregister(channelID uuid.UUID) {
	r.mu.Lock()
	e, ok := r.channels[channelID]
	if !ok {
		r.mu.Unlock()
		return
	}
	for room := range e.rooms {
		r.leaveLocked(e, room)
	}
	delete(r.channels, channelID)
	r.mu.Unlock()

	r.log.Debug("channel unregistered",
		logger.Component("registry"),
		logger.ChannelID(channelID),
		logger.UserID(e.ch.UserID()),
	)
}

// JoinRoom adds the channel to a room. Joining twice is idempotent;
// joining from an unknown channel is a silent no-op.
func (r *Registry) JoinRoom(channelID uuid.UUID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.channels[channelID]
	if !ok {
		return
	}
	r.joinLocked(e, room)
}

// LeaveRoom removes the channel from a room. Leaving a room the channel
// never joined, or from an unknown channel, is a silent no-op.
func (r *Registry) LeaveRoom(channelID uuid.UUID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.channels[channelID]
	if !ok {
		return
	}
	if _, member := e.rooms[room]; !member {
		return
	}
	r.leaveLocked(e, room)
}

// ChannelsFor returns the live channels registered to a user. The result
// is a copy; an empty slice means the user is offline.
func (r *Registry) ChannelsFor(userID string) []Channel {
	return r.ChannelsInRoom(UserRoom(userID))
}

// ChannelsInRoom returns the live channels currently in a room.
func (r *Registry) ChannelsInRoom(room string) []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[room]
	if !ok {
		return nil
	}
	channels := make([]Channel, 0, len(members))
	for id := range members {
		if e, ok := r.channels[id]; ok {
			channels = append(channels, e.ch)
		}
	}
	return channels
}

// AllChannels returns every live channel.
func (r *Registry) AllChannels() []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channels := make([]Channel, 0, len(r.channels))
	for _, e := range r.channels {
		channels = append(channels, e.ch)
	}
	return channels
}

// Rooms returns the rooms a channel has joined, personal room included.
func (r *Registry) Rooms(channelID uuid.UUID) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.channels[channelID]
	if !ok {
		return nil
	}
	rooms := make([]string, 0, len(e.rooms))
	for room := range e.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Len returns the number of registered channels.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// Close tears down the registry: every channel is closed and forgotten,
// and later registrations close their channel immediately. Close is
// idempotent.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	channels := make([]Channel, 0, len(r.channels))
	for _, e := range r.channels {
		channels = append(channels, e.ch)
	}
	clear(r.channels)
	clear(r.rooms)
	r.mu.Unlock()

	for _, ch := range channels {
		if err := ch.Close(); err != nil {
			r.log.Warn("failed to close channel during shutdown",
				logger.Component("registry"),
				logger.ChannelID(ch.ID()),
				logger.Error(err),
			)
		}
	}
	return nil
}

// joinLocked must be called with the write lock held.
func (r *Registry) joinLocked(e *entry, room string) {
	e.rooms[room] = struct{}{}
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[uuid.UUID]struct{})
		r.rooms[room] = members
	}
	members[e.ch.ID()] = struct{}{}
}

// leaveLocked must be called with the write lock held. Empty rooms are
// dropped so the room map does not accumulate dead names.
func (r *Registry) leaveLocked(e *entry, room string) {
	delete(e.rooms, room)
	if members, ok := r.rooms[room]; ok {
		delete(members, e.ch.ID())
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}
