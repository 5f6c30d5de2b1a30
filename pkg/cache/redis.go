package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskhive/realtime/pkg/logger"
)

// DefaultGateCooldown is how long the availability gate stays open after
// a backend error before the next operation probes the backend again.
const DefaultGateCooldown = 30 * time.Second

// RedisCache implements Cache on a Redis backend.
type RedisCache struct {
	client   redis.UniversalClient
	cooldown time.Duration
	log      *slog.Logger

	mu        sync.Mutex
	downUntil time.Time
}

// RedisCacheOption configures a RedisCache.
type RedisCacheOption func(*RedisCache)

// WithGateCooldown overrides how long operations are skipped after a
// backend error.
func WithGateCooldown(d time.Duration) RedisCacheOption {
	return func(c *RedisCache) {
		if d > 0 {
			c.cooldown = d
		}
	}
}

// WithRedisCacheLogger sets the logger for backend failures.
func WithRedisCacheLogger(log *slog.Logger) RedisCacheOption {
	return func(c *RedisCache) {
		if log != nil {
			c.log = log
		}
	}
}

// NewRedisCache wraps a connected go-redis client.
func NewRedisCache(client redis.UniversalClient, opts ...RedisCacheOption) *RedisCache {
	c := &RedisCache{
		client:   client,
		cooldown: DefaultGateCooldown,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.available() {
		return nil, ErrCacheUnavailable
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		if callerAborted(err) {
			return nil, err
		}
		c.tripGate("get", key, err)
		return nil, errors.Join(ErrCacheUnavailable, err)
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !c.available() {
		return ErrCacheUnavailable
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		if callerAborted(err) {
			return err
		}
		c.tripGate("set", key, err)
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	return c.InvalidateMany(ctx, key)
}

func (c *RedisCache) InvalidateMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if !c.available() {
		return ErrCacheUnavailable
	}

	// DEL on absent keys is a no-op on the redis side already.
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		if callerAborted(err) {
			return err
		}
		c.tripGate("del", keys[0], err)
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}

// callerAborted reports whether the error came from the caller's
// context rather than the backend. A cancelled request says nothing
// about backend health, so it must not open the gate.
func callerAborted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *RedisCache) available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().After(c.downUntil)
}

func (c *RedisCache) tripGate(op, key string, err error) {
	c.mu.Lock()
	c.downUntil = time.Now().Add(c.cooldown)
	c.mu.Unlock()

	c.log.Warn("cache backend error, gating cache operations",
		logger.Component("cache"),
		slog.String("op", op),
		logger.CacheKey(key),
		slog.Duration("cooldown", c.cooldown),
		logger.Error(err),
	)
}
