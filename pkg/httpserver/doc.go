// Package httpserver runs the HTTP listener that fronts the realtime
// gateway. It wraps net/http with graceful shutdown and liveness and
// readiness probes.
//
// Websocket connections are long-lived, so the server applies no read or
// write deadlines to the request body; per-message deadlines are the
// gateway's responsibility. Shutdown closes the listener and waits up to
// the configured timeout for in-flight upgrades to settle.
package httpserver
