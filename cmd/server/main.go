// Package main is the entry point for the Pantheon Trivia Hub server.
//
// Pantheon Trivia Hub tracks a pub trivia league: an operator types in each
// night's score sheet, and the service serves a ranked leaderboard with
// per-player averages, totals, and score history.
//
// The layout follows Clean Architecture:
//   - Domain: players, results, and the aggregation/ranking logic
//   - Application: use cases (commands and queries)
//   - Infrastructure: PostgreSQL repositories, optional Redis cache
//   - Interface: REST API
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pantheon-trivia/pantheon-hub/config"
	"github.com/pantheon-trivia/pantheon-hub/internal/application/command"
	"github.com/pantheon-trivia/pantheon-hub/internal/application/query"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/player"
	"github.com/pantheon-trivia/pantheon-hub/internal/infrastructure/persistence/postgres"
	"github.com/pantheon-trivia/pantheon-hub/internal/infrastructure/persistence/redis"
	httpserver "github.com/pantheon-trivia/pantheon-hub/internal/interface/http"
	"github.com/pantheon-trivia/pantheon-hub/pkg/logger"
	"github.com/pantheon-trivia/pantheon-hub/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Logging
	// ─────────────────────────────────────────────────────────────────────────
	logOpts := logger.DefaultOptions()
	logOpts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	log := logger.New(logOpts)
	log.Info("starting Pantheon Trivia Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Database (PostgreSQL/Supabase)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")

	var dbConn *postgres.Connection
	connectRetrier := retry.New(
		retry.WithMaxAttempts(cfg.Database.ConnectMaxAttempts),
		retry.WithInitialDelay(cfg.Database.ConnectBaseDelay),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("database connect failed, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(err),
			)
		}),
	)
	err = connectRetrier.Do(ctx, func(ctx context.Context) error {
		var connErr error
		dbConn, connErr = postgres.NewConnection(ctx, cfg.Database.URL)
		return connErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Migrations
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.MigrateOnStart {
		log.Info("running database migrations")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. Redis cache (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var statsCache *redis.StatsCache
	if cfg.Redis.Enabled && cfg.Redis.URL != "" {
		log.Info("connecting to Redis")
		cache, err := redis.NewCache(ctx, cfg.Redis.URL)
		if err != nil {
			// The cache is an accelerator, not a dependency.
			log.Warn("Redis unavailable, running without cache", logger.Err(err))
		} else {
			defer func() {
				_ = cache.Close()
			}()
			statsCache = redis.NewStatsCache(cache, log)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. Repositories and domain services
	// ─────────────────────────────────────────────────────────────────────────
	playerRepo := postgres.NewPlayerRepository(dbConn)
	resultRepo := postgres.NewResultRepository(dbConn)
	directory := player.NewDirectory(playerRepo)

	// statsCache is a typed nil when disabled; the interfaces must stay nil.
	var readCache query.StatsCache
	var writeCache command.CacheInvalidator
	if statsCache != nil {
		readCache = statsCache
		writeCache = statsCache
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. Application handlers
	// ─────────────────────────────────────────────────────────────────────────
	deps := httpserver.Dependencies{
		GetLeaderboardHandler:   query.NewGetLeaderboardHandler(resultRepo, readCache, log),
		GetPlayerHistoryHandler: query.NewGetPlayerHistoryHandler(playerRepo, resultRepo),
		GetRecentResultsHandler: query.NewGetRecentResultsHandler(resultRepo),
		SuggestPlayersHandler:   query.NewSuggestPlayersHandler(directory),
		SubmitResultsHandler:    command.NewSubmitResultsHandler(directory, resultRepo, writeCache, log),
		DeleteResultHandler:     command.NewDeleteResultHandler(resultRepo, writeCache, log),
		Logger:                  log,
		Database:                dbConn,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP server
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.EnableCORS = cfg.HTTP.EnableCORS
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverCfg.EnableMetrics = cfg.HTTP.EnableMetrics
	serverCfg.AdminKeyHeader = cfg.HTTP.AdminKeyHeader
	serverCfg.AdminKeyHash = cfg.HTTP.AdminKeyHash

	server := httpserver.NewServer(serverCfg, deps)
	serverErr := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. Wait for shutdown signal
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. Graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", logger.Err(err))
	}

	log.Info("shutdown complete")
	return nil
}
