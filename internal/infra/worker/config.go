package worker

import (
	"fmt"
	"log/slog"
	"time"

	"guardian-rss/pkg/config"
)

// WorkerConfig holds the configuration of the cache worker.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - A YAML section list (WORKER_CONFIG_FILE)
//   - Default values (provided by DefaultConfig)
//
// Invalid values never stop the worker: each one falls back to its default.
type WorkerConfig struct {
	// CronSchedule is the five-field cron expression of the warm and purge jobs.
	// Default: "*/5 * * * *"
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	// Default: "UTC"
	Timezone string

	// WarmParallelism bounds concurrent upstream calls during a warm run.
	// Range: 1-16
	// Default: 2
	WarmParallelism int

	// JobTimeout bounds a single job run.
	// Range: 10s-30m
	// Default: 2 minutes
	JobTimeout time.Duration

	// HealthPort is the port of the health and metrics server.
	// Range: 1024-65535
	// Default: 9091
	HealthPort int

	// ConfigFile is an optional YAML file listing the sections to warm.
	ConfigFile string

	// WarmSections are the sections re-rendered on every run.
	// Read from ConfigFile when set, otherwise from WARM_SECTIONS.
	WarmSections []string
}

// DefaultConfig returns a WorkerConfig with default values and no sections.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:    "*/5 * * * *",
		Timezone:        "UTC",
		WarmParallelism: 2,
		JobTimeout:      2 * time.Minute,
		HealthPort:      9091,
	}
}

// Location returns the time.Location of Timezone, or UTC when it cannot be loaded.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks every field and reports all failures together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := validateParallelism(c.WarmParallelism); err != nil {
		errs = append(errs, fmt.Errorf("warm parallelism: %w", err))
	}
	if err := validateJobTimeout(c.JobTimeout); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := validateHealthPort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

func validateParallelism(v int) error { return config.ValidateIntRange(v, 1, 16) }

func validateJobTimeout(d time.Duration) error {
	return config.ValidateDurationRange(d, 10*time.Second, 30*time.Minute)
}

func validateHealthPort(v int) error { return config.ValidateIntRange(v, 1024, 65535) }

// LoadConfigFromEnv loads the worker configuration with fail-open semantics:
// every invalid value is replaced by its default, logged and counted in metrics.
// The returned error is always nil.
//
// Environment variables:
//   - WORKER_CRON_SCHEDULE: cron expression (default: "*/5 * * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "UTC")
//   - WORKER_WARM_PARALLELISM: integer 1-16 (default: 2)
//   - WORKER_JOB_TIMEOUT: duration 10s-30m (default: 2m)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default: 9091)
//   - WORKER_CONFIG_FILE: YAML section list (optional)
//   - WARM_SECTIONS: comma-separated sections, used when no file is configured
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	l := &fallbackLog{logger: logger, metrics: metrics}

	cfg.CronSchedule = apply(l, "cron_schedule",
		config.LoadWithFallback("WORKER_CRON_SCHEDULE", cfg.CronSchedule, config.ParseString, config.ValidateCronSchedule))
	cfg.Timezone = apply(l, "timezone",
		config.LoadWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ParseString, config.ValidateTimezone))
	cfg.WarmParallelism = apply(l, "warm_parallelism",
		config.LoadWithFallback("WORKER_WARM_PARALLELISM", cfg.WarmParallelism, config.ParseInt, validateParallelism))
	cfg.JobTimeout = apply(l, "job_timeout",
		config.LoadWithFallback("WORKER_JOB_TIMEOUT", cfg.JobTimeout, config.ParseDuration, validateJobTimeout))
	cfg.HealthPort = apply(l, "health_port",
		config.LoadWithFallback("WORKER_HEALTH_PORT", cfg.HealthPort, config.ParseInt, validateHealthPort))

	cfg.ConfigFile = config.GetEnvString("WORKER_CONFIG_FILE", "")
	cfg.WarmSections = config.GetEnvStringList("WARM_SECTIONS", nil)
	if cfg.ConfigFile != "" {
		sections, err := LoadSectionsFile(cfg.ConfigFile)
		if err != nil {
			l.applied = true
			metrics.RecordValidationError("config_file")
			metrics.RecordFallback("config_file")
			logger.Warn("Configuration fallback applied",
				slog.String("field", "config_file"),
				slog.String("path", cfg.ConfigFile),
				slog.String("warning", err.Error()))
		} else {
			cfg.WarmSections = sections
		}
	}

	metrics.SetFallbackActive(l.applied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}

type fallbackLog struct {
	logger  *slog.Logger
	metrics *WorkerMetrics
	applied bool
}

func apply[T any](l *fallbackLog, field string, res config.LoadResult[T]) T {
	if res.FallbackApplied {
		l.applied = true
		l.metrics.RecordValidationError(field)
		l.metrics.RecordFallback(field)
		l.logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", res.Warning))
	}
	return res.Value
}
