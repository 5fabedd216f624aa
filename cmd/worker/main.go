package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"guardian-rss/internal/config"
	pgRepo "guardian-rss/internal/infra/adapter/persistence/postgres"
	sqliteRepo "guardian-rss/internal/infra/adapter/persistence/sqlite"
	"guardian-rss/internal/infra/cache"
	"guardian-rss/internal/infra/db"
	"guardian-rss/internal/infra/guardian"
	"guardian-rss/internal/infra/rss"
	workerPkg "guardian-rss/internal/infra/worker"
	"guardian-rss/internal/observability/tracing"
	"guardian-rss/internal/repository"
	"guardian-rss/internal/resilience/circuitbreaker"
	feedUC "guardian-rss/internal/usecase/feed"
)

func main() {
	appCfg, err := config.LoadAppConfigFromEnv()
	logger := initLogger(appCfg.Level())
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if appCfg.CacheBackend == config.CacheBackendMemory {
		logger.Warn("CACHE_BACKEND=memory: the worker warms its own process cache only, which the API server cannot read")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, "guardian-rss-worker", appCfg.Version)
	if err != nil {
		logger.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracing", slog.Any("error", err))
		}
	}()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("warm_parallelism", workerConfig.WarmParallelism),
		slog.Duration("job_timeout", workerConfig.JobTimeout),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Any("warm_sections", workerConfig.WarmSections))

	store, database := initCacheStore(ctx, logger, appCfg)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}
	gateway := cache.NewGateway(store, logger)

	// Start health check server
	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	jobs := &workerPkg.Jobs{
		Purger:   gateway,
		Sections: workerConfig.WarmSections,
		Timeout:  workerConfig.JobTimeout,
		Metrics:  workerMetrics,
		Logger:   logger,
	}
	if len(workerConfig.WarmSections) > 0 {
		jobs.Warmer = setupWarmer(logger, appCfg, gateway, workerConfig.WarmParallelism)
	} else {
		logger.Info("no warm sections configured, only purging expired entries")
	}

	startCronWorker(ctx, logger, jobs, workerConfig, healthServer)
}

// initLogger initializes the JSON logger and makes it the default.
func initLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// initCacheStore opens the store shared with the API server.
func initCacheStore(ctx context.Context, logger *slog.Logger, cfg config.AppConfig) (repository.FeedCacheStore, *sql.DB) {
	if cfg.CacheBackend == config.CacheBackendMemory {
		return cache.NewMemoryStore(cache.DefaultMemoryStoreConfig()), nil
	}

	dialect := db.Dialect(cfg.CacheBackend)
	database, err := db.Open(ctx, dialect, cfg.DSN())
	if err != nil {
		logger.Error("failed to open cache database", slog.String("backend", cfg.CacheBackend), slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(ctx, database, dialect); err != nil {
		logger.Error("failed to migrate cache database", slog.Any("error", err))
		os.Exit(1)
	}

	breaker := circuitbreaker.NewDBCircuitBreaker(database)
	if dialect == db.Postgres {
		return pgRepo.NewFeedCacheRepo(breaker), database
	}
	return sqliteRepo.NewFeedCacheRepo(breaker), database
}

// setupWarmer builds the same feed pipeline the API server uses.
func setupWarmer(logger *slog.Logger, cfg config.AppConfig, gateway *cache.Gateway, parallelism int) *feedUC.Warmer {
	guardianCfg, err := guardian.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load guardian configuration", slog.Any("error", err))
		os.Exit(1)
	}
	client, err := guardian.NewClient(guardianCfg)
	if err != nil {
		logger.Error("failed to create guardian client", slog.Any("error", err))
		os.Exit(1)
	}

	svc := feedUC.NewService(gateway, client, rss.NewRenderer(), feedUC.Config{
		TTL:    cfg.FeedCacheTTL,
		Logger: logger,
	})
	return feedUC.NewWarmer(svc, parallelism, logger)
}

// startCronWorker schedules the jobs and blocks until ctx is cancelled.
func startCronWorker(ctx context.Context, logger *slog.Logger, jobs *workerPkg.Jobs, cfg *workerPkg.WorkerConfig, healthServer *workerPkg.HealthServer) {
	c := cron.New(cron.WithLocation(cfg.Location()))
	if err := jobs.Schedule(c, cfg.CronSchedule); err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("worker shutting down, waiting for running jobs")
	<-c.Stop().Done()
	logger.Info("worker stopped")
}
