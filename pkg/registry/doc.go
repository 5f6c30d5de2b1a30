// Package registry tracks live client channels and their room memberships.
//
// The Registry is the single authoritative connection table for the
// process. It is created once at startup, injected into the delivery
// router and the gateway, and torn down at shutdown; nothing in the
// subsystem reaches for it as an ambient singleton.
//
// A user may hold several channels at once (multi-device). Every channel
// is auto-joined to the user's personal room (registry.UserRoom), so
// direct-to-user and room delivery share one mechanism.
//
// Operations referencing an unknown channel are silent no-ops: a race
// between a disconnect and a pending room operation is expected and must
// not surface as an error.
package registry
