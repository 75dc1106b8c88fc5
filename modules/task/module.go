package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	domain "github.com/example/task-management-api/domain/task"
	"github.com/example/task-management-api/internal/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskModule provides owner-scoped task CRUD services.
type TaskModule struct {
	gateway *database.Gateway
	service TaskService
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*TaskModule)(nil)
	_ mono.ServiceProviderModule = (*TaskModule)(nil)
	_ mono.HealthCheckableModule = (*TaskModule)(nil)
)

// NewModule creates a new TaskModule over the shared persistence gateway.
func NewModule(gateway *database.Gateway) *TaskModule {
	return &TaskModule{gateway: gateway}
}

// NewModuleWithService creates a TaskModule with an injected service.
// This constructor enables dependency injection for testing.
func NewModuleWithService(service TaskService) *TaskModule {
	return &TaskModule{service: service}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// Start verifies database connectivity, migrates the task schema and
// creates the service layer.
func (m *TaskModule) Start(ctx context.Context) error {
	if m.service != nil {
		log.Println("[task] Module started with injected service")
		return nil
	}

	db, err := m.gateway.Engine(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate task schema: %w", err)
	}

	m.service = NewTaskService(NewStore(m.gateway))

	log.Println("[task] Module started")
	return nil
}

// Stop shuts down the module. The gateway is owned by the composition
// root and disposed there.
func (m *TaskModule) Stop(_ context.Context) error {
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.gateway == nil {
		return mono.HealthStatus{
			Healthy: m.service != nil,
			Message: "operational (injected service)",
		}
	}

	db, err := m.gateway.Engine(ctx)
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database ping failed",
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service
// container. The framework prefixes them as "services.task.<name>".
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("register create: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("register list: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.handleGet,
	); err != nil {
		return fmt.Errorf("register get: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "update", json.Unmarshal, json.Marshal, m.handleUpdate,
	); err != nil {
		return fmt.Errorf("register update: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("register delete: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "toggle", json.Unmarshal, json.Marshal, m.handleToggle,
	); err != nil {
		return fmt.Errorf("register toggle: %w", err)
	}

	log.Printf("[task] Registered services: services.task.{create,list,get,update,delete,toggle}")
	return nil
}

// Handler methods delegate to the service layer.

func (m *TaskModule) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	return m.service.Create(ctx, req)
}

func (m *TaskModule) handleList(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	return m.service.List(ctx, req)
}

func (m *TaskModule) handleGet(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	return m.service.Get(ctx, req)
}

func (m *TaskModule) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	return m.service.Update(ctx, req)
}

func (m *TaskModule) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	return m.service.Delete(ctx, req)
}

func (m *TaskModule) handleToggle(ctx context.Context, req ToggleTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	return m.service.Toggle(ctx, req)
}
