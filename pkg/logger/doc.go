// Package logger provides a small factory around log/slog plus typed
// attribute helpers shared across the realtime subsystem.
//
// Components receive a *slog.Logger via options and never log through a
// package-level default, so tests can capture output and services can route
// logs per component.
//
// Usage:
//
//	log := logger.New(
//		logger.WithProduction("taskhive-realtime"),
//	)
//	log.Info("registry initialized", logger.Component("registry"))
package logger
