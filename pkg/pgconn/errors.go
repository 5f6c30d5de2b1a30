package pgconn

import "errors"

var (
	// ErrInvalidConfig is returned when the connection string cannot be
	// parsed.
	ErrInvalidConfig = errors.New("pgconn: invalid connection config")

	// ErrNotReady is returned when the database did not answer a ping
	// within the configured attempts.
	ErrNotReady = errors.New("pgconn: database did not become ready")

	// ErrHealthcheckFailed wraps ping failures from the health check.
	ErrHealthcheckFailed = errors.New("pgconn: healthcheck failed")
)
