package ratelimit

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// KeyFunc derives the rate limit key for a request, typically the
// authenticated subject or, failing that, the client address.
type KeyFunc func(c *fiber.Ctx) string

// Middleware wraps the limiter for use on a Fiber router.
type Middleware struct {
	config  Config
	client  *redis.Client
	limiter *Limiter
	keyFn   KeyFunc
}

// New connects to Redis and builds the middleware. Callers should only
// invoke this when cfg.Enabled() is true.
func New(ctx context.Context, cfg Config, keyFn KeyFunc) (*Middleware, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if keyFn == nil {
		keyFn = func(c *fiber.Ctx) string { return c.IP() }
	}

	return &Middleware{
		config:  cfg,
		client:  client,
		limiter: NewLimiter(client, cfg.KeyPrefix),
		keyFn:   keyFn,
	}, nil
}

// Close releases the Redis connection.
func (m *Middleware) Close() error {
	return m.client.Close()
}

// Handler returns the Fiber handler enforcing the limit. Redis failures
// fail open: the request proceeds rather than being rejected by an
// unavailable limiter.
func (m *Middleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := m.limiter.Allow(c.UserContext(), m.keyFn(c), m.config.Limit, m.config.Window)
		if err != nil {
			log.Printf("[ratelimit] check failed: %v", err)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "rate_limited",
				"message": "Too many requests",
			})
		}
		return c.Next()
	}
}
