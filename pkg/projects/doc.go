// Package projects implements the project read/mutate service that
// participates in the cache and notification contracts: reads go
// through the cache, mutations invalidate every derivable key before
// returning, then fan out change events.
package projects
