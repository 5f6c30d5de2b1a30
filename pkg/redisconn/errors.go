package redisconn

import "errors"

var (
	// ErrEmptyURL is returned when Connect is called without a
	// connection URL.
	ErrEmptyURL = errors.New("redisconn: empty connection URL")

	// ErrInvalidURL is returned when the connection URL cannot be
	// parsed.
	ErrInvalidURL = errors.New("redisconn: invalid connection URL")

	// ErrNotReady is returned when the server did not answer a ping
	// within the configured attempts.
	ErrNotReady = errors.New("redisconn: server did not become ready")

	// ErrHealthcheckFailed wraps ping failures from the health check.
	ErrHealthcheckFailed = errors.New("redisconn: healthcheck failed")
)
