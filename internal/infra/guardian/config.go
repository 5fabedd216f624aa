package guardian

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultBaseURL is the production endpoint of the Guardian content API.
const DefaultBaseURL = "https://content.guardianapis.com"

// ErrMissingAPIKey is returned by Validate when no API key is configured.
var ErrMissingAPIKey = errors.New("GUARDIAN_API_KEY is required")

// Config holds the settings of the content API client.
//
// Security settings:
//   - MaxBodySize: Prevents memory exhaustion from oversized responses
//   - Timeout: Bounds the single outbound call made per feed miss
//
// Upstream protection:
//   - RateLimitRPS: Paces outbound calls to stay within the key quota (0 disables)
//   - CircuitBreakerEnabled: Fails fast while the API is failing
type Config struct {
	APIKey                string        `env:"GUARDIAN_API_KEY"`
	BaseURL               string        `env:"GUARDIAN_API_BASE_URL"   envDefault:"https://content.guardianapis.com"`
	Timeout               time.Duration `env:"GUARDIAN_TIMEOUT"        envDefault:"10s"`
	RateLimitRPS          float64       `env:"GUARDIAN_RATE_LIMIT_RPS" envDefault:"10"`
	MaxBodySize           int64         `env:"GUARDIAN_MAX_BODY_BYTES" envDefault:"10485760"`
	CircuitBreakerEnabled bool          `env:"CIRCUIT_BREAKER_ENABLED" envDefault:"true"`
	UserAgent             string        `env:"GUARDIAN_USER_AGENT"     envDefault:"guardian-rss/1.0"`
}

// DefaultConfig returns the default client configuration without an API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:               DefaultBaseURL,
		Timeout:               10 * time.Second,
		RateLimitRPS:          10,
		MaxBodySize:           10 * 1024 * 1024, // 10MB
		CircuitBreakerEnabled: true,
		UserAgent:             "guardian-rss/1.0",
	}
}

// Validate checks that the configuration can be used to call the API.
//
// Validation rules:
//   - APIKey: non-empty
//   - BaseURL: absolute http(s) URL
//   - Timeout: > 0
//   - RateLimitRPS: >= 0 (0 disables pacing)
//   - MaxBodySize: 1KB-100MB
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base url must be an absolute http(s) URL, got %q", c.BaseURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit must be non-negative, got %v", c.RateLimitRPS)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables and validates it.
//
// Environment variables:
//   - GUARDIAN_API_KEY: required
//   - GUARDIAN_API_BASE_URL: URL (default: https://content.guardianapis.com)
//   - GUARDIAN_TIMEOUT: duration string, e.g., "10s" (default: 10s)
//   - GUARDIAN_RATE_LIMIT_RPS: float, 0 disables (default: 10)
//   - GUARDIAN_MAX_BODY_BYTES: integer in bytes (default: 10485760)
//   - CIRCUIT_BREAKER_ENABLED: "true" or "false" (default: true)
//   - GUARDIAN_USER_AGENT: string (default: guardian-rss/1.0)
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse guardian env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
