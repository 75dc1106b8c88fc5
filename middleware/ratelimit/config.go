// Package ratelimit provides a Redis-backed sliding-window rate limiter
// for the HTTP surface. The limiter is optional: it is only installed
// when a Redis URL is configured.
package ratelimit

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Defaults for the API rate limit.
const (
	DefaultLimit     = 120
	DefaultWindow    = time.Minute
	DefaultKeyPrefix = "ratelimit:api:"
)

// Config holds rate limiter configuration.
type Config struct {
	// RedisURL is the Redis connection URL (redis://...). Empty means
	// rate limiting is disabled.
	RedisURL string

	// Limit is the maximum number of requests allowed per window.
	Limit int

	// Window is the sliding time window.
	Window time.Duration

	// KeyPrefix namespaces the limiter's Redis keys.
	KeyPrefix string
}

// ConfigFromEnv builds a Config from environment variables. REDIS_URL
// enables the limiter; RATE_LIMIT and RATE_LIMIT_WINDOW tune it.
func ConfigFromEnv() Config {
	cfg := Config{
		RedisURL:  os.Getenv("REDIS_URL"),
		Limit:     DefaultLimit,
		Window:    DefaultWindow,
		KeyPrefix: DefaultKeyPrefix,
	}

	if raw := os.Getenv("RATE_LIMIT"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			cfg.Limit = limit
		}
	}
	if raw := os.Getenv("RATE_LIMIT_WINDOW"); raw != "" {
		if window, err := time.ParseDuration(raw); err == nil && window > 0 {
			cfg.Window = window
		}
	}

	return cfg
}

// Enabled reports whether the limiter should be installed at all.
func (c Config) Enabled() bool {
	return c.RedisURL != ""
}

// Validate checks the configuration for an enabled limiter.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.Limit <= 0 {
		return errors.New("rate limit must be positive")
	}
	if c.Window <= 0 {
		return errors.New("rate limit window must be positive")
	}
	return nil
}
