// Package tasks implements the task read/mutate service. It is the
// busiest client of the cache and notification layers: every mutation
// computes the full set of cache keys the changed row can appear under
// and invalidates them before returning, then routes change events to
// the affected users and project rooms.
package tasks
