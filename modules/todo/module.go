package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	domain "github.com/example/task-management-api/domain/todo"
	"github.com/example/task-management-api/internal/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TodoModule provides owner-scoped todo and category services.
type TodoModule struct {
	gateway *database.Gateway
	service TodoService
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*TodoModule)(nil)
	_ mono.ServiceProviderModule = (*TodoModule)(nil)
)

// NewModule creates a new TodoModule over the shared persistence gateway.
func NewModule(gateway *database.Gateway) *TodoModule {
	return &TodoModule{gateway: gateway}
}

// NewModuleWithService creates a TodoModule with an injected service.
// This constructor enables dependency injection for testing.
func NewModuleWithService(service TodoService) *TodoModule {
	return &TodoModule{service: service}
}

// Name returns the module name.
func (m *TodoModule) Name() string {
	return "todo"
}

// Start migrates the todo and category schemas and creates the service
// layer.
func (m *TodoModule) Start(ctx context.Context) error {
	if m.service != nil {
		log.Println("[todo] Module started with injected service")
		return nil
	}

	db, err := m.gateway.Engine(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.AutoMigrate(&domain.Category{}, &domain.Todo{}); err != nil {
		return fmt.Errorf("failed to migrate todo schema: %w", err)
	}

	m.service = NewTodoService(NewStore(m.gateway))

	log.Println("[todo] Module started")
	return nil
}

// Stop shuts down the module.
func (m *TodoModule) Stop(_ context.Context) error {
	log.Println("[todo] Module stopped")
	return nil
}

// RegisterServices registers request-reply services in the service
// container.
func (m *TodoModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.handleGet,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "update", json.Unmarshal, json.Marshal, m.handleUpdate,
	); err != nil {
		return fmt.Errorf("failed to register update service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "toggle", json.Unmarshal, json.Marshal, m.handleToggle,
	); err != nil {
		return fmt.Errorf("failed to register toggle service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "category-create", json.Unmarshal, json.Marshal, m.handleCategoryCreate,
	); err != nil {
		return fmt.Errorf("failed to register category-create service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "category-list", json.Unmarshal, json.Marshal, m.handleCategoryList,
	); err != nil {
		return fmt.Errorf("failed to register category-list service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "category-delete", json.Unmarshal, json.Marshal, m.handleCategoryDelete,
	); err != nil {
		return fmt.Errorf("failed to register category-delete service: %w", err)
	}

	log.Printf("[todo] Registered services: services.todo.{create,list,get,update,delete,toggle,category-create,category-list,category-delete}")
	return nil
}

// Handler methods delegate to the service layer.

func (m *TodoModule) handleCreate(ctx context.Context, req CreateTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	return m.service.Create(ctx, req)
}

func (m *TodoModule) handleList(ctx context.Context, req ListTodosRequest, _ *mono.Msg) (ListTodosResponse, error) {
	return m.service.List(ctx, req)
}

func (m *TodoModule) handleGet(ctx context.Context, req GetTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	return m.service.Get(ctx, req)
}

func (m *TodoModule) handleUpdate(ctx context.Context, req UpdateTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	return m.service.Update(ctx, req)
}

func (m *TodoModule) handleDelete(ctx context.Context, req DeleteTodoRequest, _ *mono.Msg) (DeleteTodoResponse, error) {
	return m.service.Delete(ctx, req)
}

func (m *TodoModule) handleToggle(ctx context.Context, req ToggleTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	return m.service.Toggle(ctx, req)
}

func (m *TodoModule) handleCategoryCreate(ctx context.Context, req CreateCategoryRequest, _ *mono.Msg) (CategoryResponse, error) {
	return m.service.CreateCategory(ctx, req)
}

func (m *TodoModule) handleCategoryList(ctx context.Context, req ListCategoriesRequest, _ *mono.Msg) (ListCategoriesResponse, error) {
	return m.service.ListCategories(ctx, req)
}

func (m *TodoModule) handleCategoryDelete(ctx context.Context, req DeleteCategoryRequest, _ *mono.Msg) (DeleteCategoryResponse, error) {
	return m.service.DeleteCategory(ctx, req)
}
