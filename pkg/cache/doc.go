// Package cache is the read-model cache shared by the CRUD services:
// a key/value store with TTL, a stable key contract, and a read-through
// helper so every read path follows the same population rules.
//
// Consistency is write-invalidate: a mutation removes every key it could
// have affected before reporting success, and the TTL is only a
// staleness ceiling for keys a crashed invalidation pass missed.
//
// A cache backend outage must never fail a request. RedisCache trips an
// availability gate after a backend error; while the gate is open, reads
// report misses without touching the backend and writes are skipped, so
// callers fall back to the authoritative store without hammering a dead
// backend.
package cache
