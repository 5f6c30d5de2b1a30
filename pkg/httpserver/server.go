package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/taskhive/realtime/pkg/logger"
)

// Server runs a net/http server with graceful shutdown wired to context
// cancellation and SIGINT/SIGTERM.
type Server struct {
	addr            string
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	log             *slog.Logger

	mu   sync.Mutex
	srv  *http.Server
	once sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithIdleTimeout bounds keep-alive idle time between plain HTTP
// requests. Hijacked websocket connections are unaffected.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}

// WithShutdownTimeout bounds how long Shutdown waits for in-flight
// requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithServerLogger sets the logger for lifecycle events.
func WithServerLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// New returns a Server with defaults suitable for websocket traffic.
func New(opts ...Option) *Server {
	s := &Server{
		addr:            ":8080",
		idleTimeout:     2 * time.Minute,
		shutdownTimeout: 10 * time.Second,
		log:             slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig builds a Server from an environment-loaded Config.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	base := []Option{
		WithAddr(cfg.Addr),
		WithIdleTimeout(cfg.IdleTimeout),
		WithShutdownTimeout(cfg.ShutdownTimeout),
	}
	return New(append(base, opts...)...)
}

// Run starts the listener and blocks until the context is cancelled, an
// interrupt or TERM signal arrives, or the listener fails. It always
// attempts a graceful shutdown before returning.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, errors.New("already running"))
	}
	srv := &http.Server{
		Addr:        s.addr,
		Handler:     handler,
		IdleTimeout: s.idleTimeout,
	}
	s.srv = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	s.log.Info("http server listening",
		logger.Component("httpserver"),
		slog.String("addr", s.addr),
	)

	var runErr error
	select {
	case <-ctx.Done():
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case sig := <-stop:
		s.log.Info("shutdown signal received",
			logger.Component("httpserver"),
			slog.String("signal", sig.String()),
		)
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	return nil
}

// Shutdown stops the server gracefully. Safe for repeated calls.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}
		ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
	})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
