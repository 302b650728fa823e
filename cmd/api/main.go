package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/agendahub/agenda-backend/api/routes"
	"github.com/agendahub/agenda-backend/internal/accessrequests"
	"github.com/agendahub/agenda-backend/internal/aggregate"
	"github.com/agendahub/agenda-backend/internal/appointments"
	"github.com/agendahub/agenda-backend/internal/auth"
	"github.com/agendahub/agenda-backend/internal/authz"
	"github.com/agendahub/agenda-backend/internal/catalog"
	"github.com/agendahub/agenda-backend/internal/clients"
	"github.com/agendahub/agenda-backend/internal/dashboard"
	"github.com/agendahub/agenda-backend/internal/identity"
	"github.com/agendahub/agenda-backend/internal/members"
	"github.com/agendahub/agenda-backend/internal/professionals"
	"github.com/agendahub/agenda-backend/internal/sessions"
	"github.com/agendahub/agenda-backend/internal/users"
	pkgauth "github.com/agendahub/agenda-backend/pkg/auth"
	"github.com/agendahub/agenda-backend/pkg/auth/session"
	"github.com/agendahub/agenda-backend/pkg/config"
	"github.com/agendahub/agenda-backend/pkg/db"
	"github.com/agendahub/agenda-backend/pkg/logger"
	"github.com/agendahub/agenda-backend/pkg/metrics"
	"github.com/agendahub/agenda-backend/pkg/migrate"
	"github.com/agendahub/agenda-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gormDB := dbClient.DB()
	profiles := users.NewRepository(gormDB)
	sessionRegistry := sessions.NewRegistry(gormDB)
	tokens := pkgauth.NewTokenManager(cfg.JWT)
	refresh := session.NewManager(redisClient, cfg.JWT.RefreshTokenTTL())

	authService, err := auth.NewService(auth.ServiceParams{
		Credentials:    identity.NewRepository(gormDB),
		Resolver:       authz.NewResolver(profiles),
		Registry:       sessionRegistry,
		RefreshManager: refresh,
		Tokens:         tokens,
		Notifier:       identity.NewNotifier(),
		SessionMetrics: metrics.NewSessionMetrics(registry),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Registry: registry,

		Tokens:   tokens,
		Sessions: sessionRegistry,

		Auth:           authService,
		Profiles:       profiles,
		Clients:        clients.NewService(gormDB),
		Professionals:  professionals.NewService(gormDB),
		Catalog:        catalog.NewService(gormDB),
		Appointments:   appointments.NewService(gormDB),
		Members:        members.NewService(gormDB, cfg.Password),
		Aggregate:      aggregate.NewService(gormDB, logg),
		Dashboard:      dashboard.NewService(gormDB, logg),
		AccessRequests: accessrequests.NewService(gormDB),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(stopCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
