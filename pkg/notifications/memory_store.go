package notifications

import (
	"context"
	"sync"
)

// DefaultMaxPerUser caps each user's buffer. When the cap is reached the
// oldest entries are dropped, so a user who never reconnects cannot grow
// the buffer without bound.
const DefaultMaxPerUser = 1000

// MemoryStore is the in-process Store implementation. Buffered
// notifications do not survive a restart, which matches the delivery
// contract: durability across restarts is not promised.
type MemoryStore struct {
	mu         sync.Mutex
	buffers    map[string][]Notification
	maxPerUser int
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMaxPerUser overrides the per-user buffer cap. Values below one are
// ignored.
func WithMaxPerUser(n int) MemoryStoreOption {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxPerUser = n
		}
	}
}

// NewMemoryStore creates an empty in-memory notification buffer.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		buffers:    make(map[string][]Notification),
		maxPerUser: DefaultMaxPerUser,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Append(ctx context.Context, userID string, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := append(s.buffers[userID], n)
	if overflow := len(buf) - s.maxPerUser; overflow > 0 {
		buf = buf[overflow:]
	}
	s.buffers[userID] = buf
	return nil
}

func (s *MemoryStore) Drain(ctx context.Context, userID string) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.buffers[userID]
	if !ok {
		return []Notification{}, nil
	}
	delete(s.buffers, userID)
	return buf, nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.buffers, userID)
	return nil
}
