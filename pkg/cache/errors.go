package cache

import "errors"

var (
	// ErrCacheMiss is returned when a key is absent or past its TTL.
	ErrCacheMiss = errors.New("cache: miss")

	// ErrCacheUnavailable is returned while the backend is unreachable
	// and the availability gate is open. Callers treat it as a miss but
	// must not re-populate the cache.
	ErrCacheUnavailable = errors.New("cache: backend unavailable")
)
