package httpserver

import "errors"

var (
	// ErrStart indicates that the listener failed to start.
	ErrStart = errors.New("httpserver: failed to start")
	// ErrShutdown indicates that graceful shutdown failed.
	ErrShutdown = errors.New("httpserver: failed to shutdown gracefully")
)
