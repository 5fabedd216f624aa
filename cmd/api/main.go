package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"guardian-rss/internal/config"
	hhttp "guardian-rss/internal/handler/http"
	hfeed "guardian-rss/internal/handler/http/feed"
	"guardian-rss/internal/handler/http/requestid"
	pgRepo "guardian-rss/internal/infra/adapter/persistence/postgres"
	sqliteRepo "guardian-rss/internal/infra/adapter/persistence/sqlite"
	"guardian-rss/internal/infra/cache"
	"guardian-rss/internal/infra/db"
	"guardian-rss/internal/infra/guardian"
	"guardian-rss/internal/infra/rss"
	"guardian-rss/internal/observability/logging"
	"guardian-rss/internal/observability/tracing"
	"guardian-rss/internal/repository"
	"guardian-rss/internal/resilience/circuitbreaker"
	feedUC "guardian-rss/internal/usecase/feed"

	_ "guardian-rss/docs" // swagger docs
)

// @title           Guardian RSS API
// @version         1.0
// @description     Serves Guardian content API sections as cached RSS 2.0 feeds.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

const serviceName = "guardian-rss"

func main() {
	cfg, err := config.LoadAppConfigFromEnv()
	logger := initLogger(cfg.Level())
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Setup(ctx, serviceName, cfg.Version)
	if err != nil {
		logger.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracing", slog.Any("error", err))
		}
	}()

	store, database, dbBreaker := initCacheStore(ctx, logger, cfg)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	components := setupServer(logger, cfg, store, database, dbBreaker)
	warmOnStartup(ctx, logger, components.Service, cfg.WarmSections)

	runServer(ctx, logger, cfg, components.Handler)
}

// initLogger initializes the JSON logger and makes it the default.
func initLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// initCacheStore opens the store selected by CACHE_BACKEND.
// SQL backends are migrated and wrapped in the database circuit breaker.
func initCacheStore(ctx context.Context, logger *slog.Logger, cfg config.AppConfig) (repository.FeedCacheStore, *sql.DB, *circuitbreaker.DBCircuitBreaker) {
	if cfg.CacheBackend == config.CacheBackendMemory {
		logger.Info("feed cache initialized", slog.String("backend", cfg.CacheBackend))
		return cache.NewMemoryStore(cache.DefaultMemoryStoreConfig()), nil, nil
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
	logger.Info("feed cache initialized", slog.String("backend", cfg.CacheBackend))

	if dialect == db.Postgres {
		return pgRepo.NewFeedCacheRepo(breaker), database, breaker
	}
	return sqliteRepo.NewFeedCacheRepo(breaker), database, breaker
}

// ServerComponents holds what main needs after wiring.
type ServerComponents struct {
	Handler http.Handler
	Service *feedUC.Service
}

// setupServer wires the feed pipeline and returns the HTTP handler.
func setupServer(
	logger *slog.Logger,
	cfg config.AppConfig,
	store repository.FeedCacheStore,
	database *sql.DB,
	dbBreaker *circuitbreaker.DBCircuitBreaker,
) *ServerComponents {
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
	logger.Info("guardian client initialized",
		slog.String("base_url", guardianCfg.BaseURL),
		slog.Duration("timeout", guardianCfg.Timeout),
		slog.Float64("rate_limit_rps", guardianCfg.RateLimitRPS),
		slog.Bool("circuit_breaker", guardianCfg.CircuitBreakerEnabled))

	svc := feedUC.NewService(
		cache.NewGateway(store, logger),
		client,
		rss.NewRenderer(),
		feedUC.Config{TTL: cfg.FeedCacheTTL, Logger: logger},
	)

	breakers := make(map[string]hhttp.BreakerState)
	if b := client.Breaker(); b != nil {
		breakers[b.Name()] = b
	}
	if dbBreaker != nil {
		breakers["feed-cache-db"] = dbBreaker
	}

	mux := setupRoutes(logger, cfg, svc, database, breakers)
	return &ServerComponents{
		Handler: applyMiddleware(logger, cfg, mux),
		Service: svc,
	}
}

// setupRoutes registers the operational routes and the feed route.
// Operational routes are method-qualified so that they take precedence over the section wildcard.
func setupRoutes(logger *slog.Logger, cfg config.AppConfig, svc *feedUC.Service, database *sql.DB, breakers map[string]hhttp.BreakerState) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /health", &hhttp.HealthHandler{
		DB:           database,
		CacheBackend: cfg.CacheBackend,
		Breakers:     breakers,
		Version:      cfg.Version,
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	hfeed.Register(mux, svc, logger)
	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost first): Request ID → Tracing → Logging → Recovery → Metrics → Body Limit → Deadline
func applyMiddleware(logger *slog.Logger, cfg config.AppConfig, handler http.Handler) http.Handler {
	return hhttp.Chain(handler,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.MetricsMiddleware,
		hhttp.LimitRequestBody(1<<20), // 1MB limit
		hhttp.Deadline(cfg.RequestTimeout),
	)
}

// warmOnStartup renders WARM_SECTIONS once before the server accepts traffic.
// Failures are logged by the warmer and never block startup.
func warmOnStartup(ctx context.Context, logger *slog.Logger, svc *feedUC.Service, sections []string) {
	if len(sections) == 0 {
		return
	}
	warmCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if _, err := feedUC.NewWarmer(svc, 0, logger).Warm(warmCtx, sections); err != nil {
		logger.Warn("startup warm interrupted", slog.Any("error", err))
	}
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(ctx context.Context, logger *slog.Logger, cfg config.AppConfig, handler http.Handler) {
	addr := cfg.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return logging.WithLogger(ctx, logger)
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", cfg.Version),
			slog.String("cache_backend", cfg.CacheBackend),
			slog.Duration("feed_cache_ttl", cfg.FeedCacheTTL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down server...", slog.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
