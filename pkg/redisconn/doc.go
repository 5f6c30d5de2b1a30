// Package redisconn establishes the Redis connection backing the cache
// layer: env-driven configuration, connect with retry, and a
// health-check hook for readiness probes.
package redisconn
