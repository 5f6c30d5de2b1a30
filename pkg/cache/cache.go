package cache

import (
	"context"
	"time"
)

// DefaultTTL is the staleness ceiling applied when read paths populate
// the cache: 300,000 ms.
const DefaultTTL = 5 * time.Minute

// Cache is a key/value store with per-entry TTL.
//
// Invalidation of an absent key is a no-op, never an error. Multi-key
// invalidation is best-effort sequential, not atomic: a failure mid-way
// can leave some keys stale, bounded by their TTL.
type Cache interface {
	// Get returns the stored value, ErrCacheMiss when the key is absent
	// or expired, or ErrCacheUnavailable while the backend is down.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set unconditionally overwrites the value and resets its expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate removes the key.
	Invalidate(ctx context.Context, key string) error

	// InvalidateMany removes the keys sequentially.
	InvalidateMany(ctx context.Context, keys ...string) error
}
