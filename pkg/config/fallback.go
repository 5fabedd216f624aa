package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadResult is the outcome of a fail-open configuration load.
type LoadResult[T any] struct {
	Value           T
	Warning         string // empty unless FallbackApplied
	FallbackApplied bool
}

// LoadWithFallback reads envKey, parses it and validates it.
// Unset variables silently yield defaultValue. Parse or validation failures also
// yield defaultValue, with FallbackApplied set and a warning describing the rejected value.
// It never returns an error.
//
// Example:
//
//	res := LoadWithFallback("WORKER_CRON_SCHEDULE", "*/5 * * * *", ParseString, ValidateCronSchedule)
//	if res.FallbackApplied {
//	    logger.Warn("configuration fallback applied", slog.String("warning", res.Warning))
//	}
func LoadWithFallback[T any](envKey string, defaultValue T, parse func(string) (T, error), validate func(T) error) LoadResult[T] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult[T]{Value: defaultValue}
	}

	fallback := func(err error) LoadResult[T] {
		return LoadResult[T]{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}

	value, err := parse(raw)
	if err != nil {
		return fallback(err)
	}
	if validate != nil {
		if err := validate(value); err != nil {
			return fallback(err)
		}
	}
	return LoadResult[T]{Value: value}
}

// ParseString is the identity parser for LoadWithFallback.
func ParseString(s string) (string, error) { return s, nil }

// ParseInt parses a base-10 integer for LoadWithFallback.
func ParseInt(s string) (int, error) { return strconv.Atoi(s) }

// ParseDuration parses a Go duration string for LoadWithFallback.
func ParseDuration(s string) (time.Duration, error) { return time.ParseDuration(s) }
