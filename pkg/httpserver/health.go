package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taskhive/realtime/pkg/logger"
)

// HealthHandler serves liveness and readiness probes. With no checks it
// reports 200 "ALIVE". With checks it runs each one against the request
// context and reports 200 "READY" or 503 "NOT_READY".
func HealthHandler(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.Error("readiness check failed",
					logger.Component("httpserver"),
					logger.Error(err),
				)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
