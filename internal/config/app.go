// Package config holds the configuration of the API server.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"guardian-rss/internal/observability/logging"
	pkgconfig "guardian-rss/pkg/config"
)

// Cache backends selectable with CACHE_BACKEND.
const (
	CacheBackendMemory   = "memory"
	CacheBackendPostgres = "postgres"
	CacheBackendSQLite   = "sqlite"
)

// AppConfig is the configuration of cmd/api.
type AppConfig struct {
	Port            int           `env:"PORT"             envDefault:"8080"`
	CacheBackend    string        `env:"CACHE_BACKEND"    envDefault:"memory"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	SQLitePath      string        `env:"SQLITE_PATH"      envDefault:"guardian-rss.db"`
	FeedCacheTTL    time.Duration `env:"FEED_CACHE_TTL"   envDefault:"10m"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	Version         string        `env:"VERSION"          envDefault:"dev"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	WarmSections    []string      `env:"WARM_SECTIONS"`
}

// DefaultAppConfig returns the configuration used when no variables are set.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Port:            8080,
		CacheBackend:    CacheBackendMemory,
		SQLitePath:      "guardian-rss.db",
		FeedCacheTTL:    10 * time.Minute,
		LogLevel:        "info",
		Version:         "dev",
		RequestTimeout:  15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Addr returns the listen address for Port.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Level returns the slog level named by LogLevel.
func (c *AppConfig) Level() slog.Level {
	return logging.ParseLevel(c.LogLevel)
}

// DSN returns the data source name of the selected SQL backend.
// It is empty for the memory backend.
func (c *AppConfig) DSN() string {
	switch c.CacheBackend {
	case CacheBackendPostgres:
		return c.DatabaseURL
	case CacheBackendSQLite:
		return c.SQLitePath
	default:
		return ""
	}
}

// Validate checks the configuration.
//
// Validation rules:
//   - Port: 1-65535
//   - CacheBackend: memory, postgres or sqlite
//   - DatabaseURL: required for postgres
//   - SQLitePath: required for sqlite
//   - FeedCacheTTL: > 0
//   - RequestTimeout, ShutdownTimeout: > 0
func (c *AppConfig) Validate() error {
	if err := pkgconfig.ValidateIntRange(c.Port, 1, 65535); err != nil {
		return fmt.Errorf("port: %w", err)
	}

	switch c.CacheBackend {
	case CacheBackendMemory:
	case CacheBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when CACHE_BACKEND=%s", c.CacheBackend)
		}
	case CacheBackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required when CACHE_BACKEND=%s", c.CacheBackend)
		}
	default:
		return fmt.Errorf("unknown cache backend %q (want memory, postgres or sqlite)", c.CacheBackend)
	}

	if err := pkgconfig.ValidatePositiveDuration(c.FeedCacheTTL); err != nil {
		return fmt.Errorf("feed cache ttl: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("request timeout: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown timeout: %w", err)
	}
	return nil
}

// LoadAppConfigFromEnv parses the environment and validates the result.
func LoadAppConfigFromEnv() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return DefaultAppConfig(), fmt.Errorf("parse app env: %w", err)
	}
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))
	cfg.WarmSections = pkgconfig.SplitList(strings.Join(cfg.WarmSections, ","))

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
