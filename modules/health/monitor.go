package health

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/task-management-api/internal/database"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DefaultTimeout bounds every probe. Health checks must answer quickly so
// a hung dependency cannot starve the probers.
const DefaultTimeout = 1 * time.Second

// Status values reported by checks.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes a single dependency. It must always produce a result,
// never an error.
type CheckFunc func(ctx context.Context) CheckResult

// Monitor aggregates dependency probes into status reports.
type Monitor struct {
	gateway *database.Gateway
	timeout time.Duration

	mu     sync.Mutex
	checks map[string]CheckFunc
}

// NewMonitor creates a Monitor over the persistence gateway with the
// database check pre-registered. A non-positive timeout falls back to
// DefaultTimeout.
func NewMonitor(gateway *database.Gateway, timeout time.Duration) *Monitor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	m := &Monitor{
		gateway: gateway,
		timeout: timeout,
		checks:  make(map[string]CheckFunc),
	}
	m.AddCheck("database", m.CheckDatabase)
	return m
}

// AddCheck registers an additional named dependency probe.
func (m *Monitor) AddCheck(name string, fn CheckFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[name] = fn
}

type probeOutcome struct {
	value int
	err   error
}

// CheckDatabase runs a trivial round-trip query through a scoped session,
// bounded by the monitor timeout. Latency covers the full operation
// including session acquisition. A probe that outlives the timeout is
// abandoned; its late result is discarded.
func (m *Monitor) CheckDatabase(ctx context.Context) CheckResult {
	start := time.Now()
	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	// Buffered so the abandoned goroutine can complete and exit.
	outcome := make(chan probeOutcome, 1)
	go func() {
		var value int
		err := m.gateway.WithSession(cctx, func(tx *gorm.DB) error {
			return tx.Raw("SELECT 1").Scan(&value).Error
		})
		outcome <- probeOutcome{value: value, err: err}
	}()

	select {
	case <-cctx.Done():
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return CheckResult{
				Status:    StatusUnhealthy,
				Connected: false,
				Error:     fmt.Sprintf("connection timed out after %s", m.timeout),
			}
		}
		return CheckResult{
			Status:    StatusUnhealthy,
			Connected: false,
			Error:     "health check canceled",
		}

	case result := <-outcome:
		latency := time.Since(start).Milliseconds()
		if result.err != nil {
			return failureResult(result.err, m.timeout)
		}
		if result.value != 1 {
			return CheckResult{
				Status:    StatusUnhealthy,
				Connected: true,
				LatencyMS: &latency,
				Error:     fmt.Sprintf("unexpected query result: %d", result.value),
			}
		}
		return CheckResult{
			Status:    StatusHealthy,
			Connected: true,
			LatencyMS: &latency,
		}
	}
}

// FullStatus runs every registered check concurrently and aggregates the
// results. Overall status is healthy iff all checks are healthy.
func (m *Monitor) FullStatus(ctx context.Context) FullStatus {
	m.mu.Lock()
	checks := make(map[string]CheckFunc, len(m.checks))
	for name, fn := range m.checks {
		checks[name] = fn
	}
	m.mu.Unlock()

	var (
		resultsMu sync.Mutex
		results   = make(map[string]CheckResult, len(checks))
	)

	g, gctx := errgroup.WithContext(ctx)
	for name, fn := range checks {
		g.Go(func() error {
			result := fn(gctx)
			resultsMu.Lock()
			results[name] = result
			resultsMu.Unlock()
			return nil
		})
	}
	// Checks never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	status := StatusHealthy
	for _, result := range results {
		if result.Status != StatusHealthy {
			status = StatusUnhealthy
			break
		}
	}

	return FullStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Checks:    results,
	}
}

// failureResult converts a probe error into a sanitized result. Raw
// driver text never reaches callers.
func failureResult(err error, timeout time.Duration) CheckResult {
	classified := database.Classify(err)

	var integrityErr *database.IntegrityError
	switch {
	case errors.Is(classified, database.ErrTimeout),
		errors.Is(classified, context.DeadlineExceeded):
		return CheckResult{
			Status:    StatusUnhealthy,
			Connected: false,
			Error:     fmt.Sprintf("connection timed out after %s", timeout),
		}
	case errors.Is(classified, database.ErrConnection):
		return CheckResult{
			Status:    StatusUnhealthy,
			Connected: false,
			Error:     "database connection failed",
		}
	case errors.As(classified, &integrityErr):
		return CheckResult{
			Status:    StatusUnhealthy,
			Connected: true,
			Error:     integrityErr.Error(),
		}
	default:
		return CheckResult{
			Status:    StatusUnhealthy,
			Connected: false,
			Error:     "database error",
		}
	}
}
