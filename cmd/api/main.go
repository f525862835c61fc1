// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

// Command api is the entry point for the CloudVault access-control API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and run migrations, or fall back to
//     seeded in-memory stores when DATABASE_URL is unset.
//  4. Connect to Redis, or fall back to in-memory session/gate stores.
//  5. Wire domain services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudvault/cloudvault/internal/api"
	"github.com/cloudvault/cloudvault/internal/gate"
	"github.com/cloudvault/cloudvault/internal/identity"
	"github.com/cloudvault/cloudvault/internal/platform/config"
	"github.com/cloudvault/cloudvault/internal/platform/constants"
	"github.com/cloudvault/cloudvault/internal/platform/migration"
	pgstore "github.com/cloudvault/cloudvault/internal/platform/postgres"
	redisstore "github.com/cloudvault/cloudvault/internal/platform/redis"
	"github.com/cloudvault/cloudvault/internal/platform/sec"
	"github.com/cloudvault/cloudvault/internal/resource"
	"github.com/cloudvault/cloudvault/internal/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[CloudVault] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	health := api.HealthDependencies{}

	// ── 3. Identity & Resource Storage (PostgreSQL or in-memory) ──────────
	var (
		identityRepo identity.Repository
		credRepo     identity.CredentialRepository
		resourceRepo resource.Store
	)

	if cfg.DatabaseURL != "" {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		pgIdentities := identity.NewPostgresRepository(pool)
		identityRepo = pgIdentities
		credRepo = pgIdentities
		resourceRepo = resource.NewPostgresStore(pool)

		health.CheckDatabase = func() error {
			return pgstore.Ping(context.Background(), pool)
		}
	} else {
		log.Warn("DATABASE_URL not set, using seeded in-memory identity and resource stores")

		memIdentities := identity.NewMemoryRepository()
		must(log, identity.SeedDemo(startupCtx, memIdentities), "seed demo identities")
		identityRepo = memIdentities
		credRepo = memIdentities
		resourceRepo = resource.NewMemoryStore()
	}

	// ── 4. Session & Gate Storage (Redis or in-memory) ────────────────────
	var (
		sessionStore   session.Store
		challengeStore gate.ChallengeStore
		grantStore     gate.GrantStore
	)

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		sessionStore = session.NewRedisStore(rdb)
		challengeStore = gate.NewRedisChallengeStore(rdb)
		grantStore = gate.NewRedisGrantStore(rdb)

		health.CheckCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	} else {
		log.Warn("REDIS_URL not set, using in-memory session and gate stores")

		sessionStore = session.NewMemoryStore()
		challengeStore = gate.NewMemoryChallengeStore()
		grantStore = gate.NewMemoryGrantStore()
	}

	// ── 5. Grant Token Signer (optional) ──────────────────────────────────
	var tokenMinter gate.GrantTokenMinter
	if cfg.GrantPrivKeyPath != "" && cfg.GrantPubKeyPath != "" {
		tokenService, err := sec.NewTokenService(cfg.GrantPrivKeyPath, cfg.GrantPubKeyPath, constants.AuthIssuer)
		must(log, err, "initialize grant token service")
		tokenMinter = tokenService
	} else {
		log.Warn("grant token keys not configured, gate passes will not mint downstream tokens")
	}

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	credentialService := identity.NewService(identityRepo, credRepo)
	resourceService := resource.NewService(resourceRepo)

	gateService := gate.NewService(resourceService, grantStore, challengeStore, gate.NewLogNotifier(log), tokenMinter)
	sessionManager := session.NewManager(credentialService, identityRepo, sessionStore, grantStore)

	authHandler := session.NewHandler(sessionManager)
	gateHandler := gate.NewHandler(gateService)
	resourceHandler := resource.NewHandler(resourceService, gateHandler)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Resource:  resourceHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, sessionManager, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
