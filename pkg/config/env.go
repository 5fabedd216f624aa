// Package config provides environment variable helpers and reusable validators
// shared by the API server and the worker.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnv reads key and parses it. An unset or empty variable returns
// defaultValue silently; a value that fails to parse returns defaultValue and
// logs a warning.
func getEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	value, err := parse(raw)
	if err != nil {
		slog.Warn("invalid value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Any("default", defaultValue),
			slog.String("error", err.Error()))
		return defaultValue
	}
	return value
}

// GetEnvString returns the value of an environment variable or the default value if not set.
//
// Example:
//
//	path := GetEnvString("SQLITE_PATH", "guardian-rss.db")
func GetEnvString(key, defaultValue string) string {
	return getEnv(key, defaultValue, func(s string) (string, error) { return s, nil })
}

// GetEnvInt returns the value of an environment variable as an integer.
// Invalid values fall back to defaultValue with a warning.
//
// Example:
//
//	maxConns := GetEnvInt("DB_MAX_OPEN_CONNS", 25)
func GetEnvInt(key string, defaultValue int) int {
	return getEnv(key, defaultValue, strconv.Atoi)
}

// GetEnvBool returns the value of an environment variable as a boolean.
// Accepts the forms understood by strconv.ParseBool ("1", "t", "true", "0", "f", "false", ...).
func GetEnvBool(key string, defaultValue bool) bool {
	return getEnv(key, defaultValue, strconv.ParseBool)
}

// GetEnvDuration returns the value of an environment variable as a time.Duration.
//
// Example:
//
//	lifetime := GetEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return getEnv(key, defaultValue, time.ParseDuration)
}

// GetEnvStringList returns a comma-separated list from an environment variable.
// Entries are trimmed and empty entries dropped; a list with no entries yields defaultValue.
//
// Example:
//
//	// WARM_SECTIONS="business, world,,uk-news"
//	sections := GetEnvStringList("WARM_SECTIONS", nil)
//	// ["business", "world", "uk-news"]
func GetEnvStringList(key string, defaultValue []string) []string {
	list := SplitList(os.Getenv(key))
	if len(list) == 0 {
		return defaultValue
	}
	return list
}

// SplitList splits a comma-separated string, trimming entries and dropping empty ones.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
