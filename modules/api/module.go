package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/task-management-api/middleware/ratelimit"
	"github.com/example/task-management-api/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module. It owns the Fiber server and routes
// requests to the task, todo, health and auth services.
type APIModule struct {
	app             *fiber.App
	addr            string
	authContainer   mono.ServiceContainer
	taskContainer   mono.ServiceContainer
	todoContainer   mono.ServiceContainer
	healthContainer mono.ServiceContainer
	authAdapter     auth.AuthPort
	limiter         *ratelimit.Middleware
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule listening on HTTP_ADDR (default :3000).
func NewModule() *APIModule {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":3000"
	}
	return &APIModule{addr: addr}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "task", "todo", "health"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAuthAdapter(container)
	case "task":
		m.taskContainer = container
	case "todo":
		m.todoContainer = container
	case "health":
		m.healthContainer = container
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(ctx context.Context) error {
	if m.authContainer == nil || m.taskContainer == nil ||
		m.todoContainer == nil || m.healthContainer == nil {
		return fmt.Errorf("module dependencies not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	// Add middleware
	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	// Rate limiting is optional: it only engages when REDIS_URL is set.
	rlConfig := ratelimit.ConfigFromEnv()
	if rlConfig.Enabled() {
		limiter, err := ratelimit.New(ctx, rlConfig, nil)
		if err != nil {
			return fmt.Errorf("rate limiter setup failed: %w", err)
		}
		m.limiter = limiter
		m.app.Use(limiter.Handler())
		log.Printf("[api] Rate limiting enabled: %d requests per %s", rlConfig.Limit, rlConfig.Window)
	}

	// Setup routes
	m.setupRoutes()

	// Start server in goroutine
	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", m.addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.limiter != nil {
		m.limiter.Close()
	}
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(m.taskContainer, m.todoContainer, m.healthContainer)

	// Health endpoints are unauthenticated so probers can always reach them.
	m.app.Get("/health", handlers.Health)
	m.app.Get("/health/db", handlers.DatabaseHealth)

	// User-scoped routes: every path names its owner and the owner must
	// match the authenticated subject.
	user := m.app.Group("/api/:userID")
	user.Use(AuthMiddleware(m.authAdapter))
	user.Use(OwnerGuard())

	user.Post("/tasks", handlers.CreateTask)
	user.Get("/tasks", handlers.ListTasks)
	user.Get("/tasks/:taskID", handlers.GetTask)
	user.Put("/tasks/:taskID", handlers.UpdateTask)
	user.Delete("/tasks/:taskID", handlers.DeleteTask)
	user.Patch("/tasks/:taskID/complete", handlers.ToggleTask)

	user.Post("/todos", handlers.CreateTodo)
	user.Get("/todos", handlers.ListTodos)
	user.Get("/todos/:todoID", handlers.GetTodo)
	user.Put("/todos/:todoID", handlers.UpdateTodo)
	user.Delete("/todos/:todoID", handlers.DeleteTodo)
	user.Patch("/todos/:todoID/complete", handlers.ToggleTodo)

	user.Post("/categories", handlers.CreateCategory)
	user.Get("/categories", handlers.ListCategories)
	user.Delete("/categories/:categoryID", handlers.DeleteCategory)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
