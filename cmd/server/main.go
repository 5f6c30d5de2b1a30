package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/taskhive/realtime/pkg/api"
	"github.com/taskhive/realtime/pkg/auth"
	"github.com/taskhive/realtime/pkg/cache"
	"github.com/taskhive/realtime/pkg/config"
	"github.com/taskhive/realtime/pkg/gateway"
	"github.com/taskhive/realtime/pkg/httpserver"
	"github.com/taskhive/realtime/pkg/logger"
	"github.com/taskhive/realtime/pkg/notifications"
	"github.com/taskhive/realtime/pkg/pgconn"
	"github.com/taskhive/realtime/pkg/projects"
	"github.com/taskhive/realtime/pkg/redisconn"
	"github.com/taskhive/realtime/pkg/registry"
	"github.com/taskhive/realtime/pkg/tasks"
)

type appConfig struct {
	Env       string `env:"APP_ENV" envDefault:"production"`
	JWTSecret string `env:"JWT_SECRET,required"`

	HTTP    httpserver.Config
	Gateway gateway.Config
	Redis   redisconn.Config
	PG      pgconn.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	var log *slog.Logger
	if cfg.Env == "development" {
		log = logger.New(logger.WithDevelopment("realtime"))
	} else {
		log = logger.New(logger.WithProduction("realtime"))
	}
	slog.SetDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pgconn.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	checks := []func(context.Context) error{pgconn.Healthcheck(pool)}

	// Redis is optional: without a URL the cache degrades to in-process
	// memory and notifications still flow.
	var store cache.Cache = cache.NewMemoryCache()
	if cfg.Redis.URL != "" {
		client, err := redisconn.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		store = cache.NewRedisCache(client, cache.WithRedisCacheLogger(log))
		checks = append(checks, redisconn.Healthcheck(client))
	} else {
		log.Warn("REDIS_URL not set, using in-memory cache", logger.Component("main"))
	}

	verifier, err := auth.NewJWTVerifier(cfg.JWTSecret)
	if err != nil {
		return err
	}

	reg := registry.New()
	defer reg.Close()

	buffer := notifications.NewMemoryStore()
	router := notifications.NewRouter(reg, buffer, notifications.WithRouterLogger(log))

	projectStore := projects.NewPgStore(pool)
	projectSvc := projects.NewService(projectStore, store, router, projects.WithLogger(log))

	taskStore := tasks.NewPgStore(pool)
	taskSvc := tasks.NewService(taskStore, projectSvc, store, router, tasks.WithLogger(log))

	gw := gateway.New(verifier, reg, buffer,
		gateway.WithConfig(cfg.Gateway),
		gateway.WithLogger(log),
	)

	mux := http.NewServeMux()
	mux.Handle("/ws", gw)
	mux.Handle("/api/", api.Router(verifier, projectSvc, taskSvc, log))
	mux.HandleFunc("/healthz", httpserver.HealthHandler(log))
	mux.HandleFunc("/readyz", httpserver.HealthHandler(log, checks...))

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithServerLogger(log))
	return srv.Run(ctx, mux)
}
