// Package api exposes the REST surface over the task and project
// services. Mutations issued here drive the cache invalidation and
// realtime fan-out; the websocket gateway only carries the resulting
// events.
//
// All routes below /api require a bearer token verified by the same
// auth.Verifier the gateway uses, so an access token works identically
// on both surfaces.
package api
