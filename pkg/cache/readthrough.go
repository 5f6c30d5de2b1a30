package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// GetOrCompute is the single read-through path used by every cached
// read: check the cache, fall back to compute on miss, then populate
// with the given TTL before returning.
//
// Cache failures are absorbed here. An unavailable backend behaves like
// a miss, except the computed value is not written back, so a persistent
// outage does not turn into a set-retry storm. Compute errors propagate
// unchanged.
func GetOrCompute[T any](ctx context.Context, c Cache, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := c.Get(ctx, key)
	if err == nil {
		var v T
		if unmarshalErr := json.Unmarshal(raw, &v); unmarshalErr == nil {
			return v, nil
		}
		// Undecodable entry: drop it and recompute.
		_ = c.Invalidate(ctx, key)
		err = ErrCacheMiss
	}

	v, computeErr := compute(ctx)
	if computeErr != nil {
		return zero, computeErr
	}

	// Populate only on a genuine miss; while the gate is open the write
	// would be skipped anyway, and writing here would mask the outage.
	if errors.Is(err, ErrCacheMiss) {
		if encoded, marshalErr := json.Marshal(v); marshalErr == nil {
			_ = c.Set(ctx, key, encoded, ttl)
		}
	}

	return v, nil
}
