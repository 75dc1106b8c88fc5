// Package database owns the relational storage handle and hands out
// request-scoped transactional sessions with commit-on-success,
// rollback-on-error discipline.
package database

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool defaults: 5 base connections plus 10 overflow.
const (
	defaultMaxOpenConns    = 15
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
)

// Config holds gateway configuration.
type Config struct {
	// URL is the Postgres connection string. The transport must be
	// encrypted: sslmode=disable is rejected, and sslmode=require is
	// appended when no sslmode is present.
	URL string

	// Dialector, when set, overrides the URL-derived dialector. Used by
	// tests and embedded deployments (e.g. in-memory SQLite).
	Dialector gorm.Dialector

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ConfigFromEnv builds a Config from environment variables.
func ConfigFromEnv() Config {
	return Config{
		URL: os.Getenv("DATABASE_URL"),
	}
}

// Gateway owns the shared database handle. The handle is constructed
// lazily on the first Engine call and reused by every subsequent call
// until Dispose releases it.
type Gateway struct {
	mu  sync.Mutex
	cfg Config
	db  *gorm.DB
}

// NewGateway validates the configuration and returns a gateway. The
// connection itself is not established until Engine is called.
func NewGateway(cfg Config) (*Gateway, error) {
	if cfg.Dialector == nil {
		normalized, err := normalizeURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		cfg.URL = normalized
	}

	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = defaultConnMaxLifetime
	}

	return &Gateway{cfg: cfg}, nil
}

// Engine returns the shared database handle, constructing it on first
// call. Construction verifies connectivity with a ping so that a broken
// configuration fails here rather than on the first query.
func (g *Gateway) Engine(ctx context.Context) (*gorm.DB, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db != nil {
		return g.db, nil
	}

	dialector := g.cfg.Dialector
	if dialector == nil {
		dialector = postgres.Open(g.cfg.URL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", Classify(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(g.cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(g.cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(g.cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database unreachable: %w", Classify(err))
	}

	g.db = db
	return g.db, nil
}

// WithSession runs fn inside a transaction bound to ctx. The transaction
// commits when fn returns nil and rolls back when fn returns an error or
// panics; the connection is returned to the pool either way.
func (g *Gateway) WithSession(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db, err := g.Engine(ctx)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Dispose closes the pool and resets the gateway so that a later Engine
// call reconstructs a fresh handle.
func (g *Gateway) Dispose() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db == nil {
		return nil
	}

	sqlDB, err := g.db.DB()
	g.db = nil
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	return sqlDB.Close()
}

// normalizeURL validates the connection string and enforces an encrypted
// transport.
func normalizeURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: DATABASE_URL is not set", ErrConfiguration)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: DATABASE_URL is not a valid URL", ErrConfiguration)
	}

	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", fmt.Errorf("%w: DATABASE_URL must be a postgres:// connection string", ErrConfiguration)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: DATABASE_URL has no host", ErrConfiguration)
	}

	query := parsed.Query()
	switch strings.ToLower(query.Get("sslmode")) {
	case "":
		query.Set("sslmode", "require")
		parsed.RawQuery = query.Encode()
	case "disable", "allow":
		return "", fmt.Errorf("%w: DATABASE_URL must use an encrypted connection (sslmode=require)", ErrConfiguration)
	}

	return parsed.String(), nil
}
