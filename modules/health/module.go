package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/task-management-api/internal/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// HealthModule exposes dependency health probes as services.
type HealthModule struct {
	gateway *database.Gateway
	monitor *Monitor
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*HealthModule)(nil)
	_ mono.ServiceProviderModule = (*HealthModule)(nil)
)

// NewModule creates a new HealthModule over the shared persistence
// gateway, probing with the default timeout.
func NewModule(gateway *database.Gateway) *HealthModule {
	return &HealthModule{
		gateway: gateway,
		monitor: NewMonitor(gateway, DefaultTimeout),
	}
}

// Name returns the module name.
func (m *HealthModule) Name() string {
	return "health"
}

// Start initializes the health module.
func (m *HealthModule) Start(_ context.Context) error {
	log.Printf("[health] Module started (probe timeout: %s)", m.monitor.timeout)
	return nil
}

// Stop shuts down the module.
func (m *HealthModule) Stop(_ context.Context) error {
	log.Println("[health] Module stopped")
	return nil
}

// RegisterServices registers request-reply services in the service
// container.
func (m *HealthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "check-db", json.Unmarshal, json.Marshal, m.handleCheckDatabase,
	); err != nil {
		return fmt.Errorf("register check-db: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "full-status", json.Unmarshal, json.Marshal, m.handleFullStatus,
	); err != nil {
		return fmt.Errorf("register full-status: %w", err)
	}

	log.Printf("[health] Registered services: services.health.{check-db,full-status}")
	return nil
}

// handleCheckDatabase probes the database. A probe always answers; it
// never returns an error to its caller.
func (m *HealthModule) handleCheckDatabase(ctx context.Context, _ CheckDatabaseRequest, _ *mono.Msg) (CheckResult, error) {
	return m.monitor.CheckDatabase(ctx), nil
}

// handleFullStatus returns the aggregated health report.
func (m *HealthModule) handleFullStatus(ctx context.Context, _ FullStatusRequest, _ *mono.Msg) (FullStatus, error) {
	return m.monitor.FullStatus(ctx), nil
}
