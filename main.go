package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/example/task-management-api/internal/database"
	"github.com/example/task-management-api/modules/api"
	"github.com/example/task-management-api/modules/auth"
	"github.com/example/task-management-api/modules/health"
	"github.com/example/task-management-api/modules/task"
	"github.com/example/task-management-api/modules/todo"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("Starting task-management-api...")

	// Database configuration is validated before anything starts serving:
	// a bad DATABASE_URL should kill the process, not surface later as a
	// request failure.
	gateway, err := database.NewGateway(database.ConfigFromEnv())
	if err != nil {
		if errors.Is(err, database.ErrConfiguration) {
			log.Fatalf("Invalid database configuration: %v", err)
		}
		log.Fatalf("Failed to create database gateway: %v", err)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule())
	app.Register(task.NewModule(gateway))
	app.Register(todo.NewModule(gateway))
	app.Register(health.NewModule(gateway))
	app.Register(api.NewModule()) // Depends on all of the above

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
			"database": func(_ context.Context) error {
				return gateway.Dispose()
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (default http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  GET    /health                                    - Full health status")
	log.Println("  GET    /health/db                                 - Database connectivity check")
	log.Println("")
	log.Println("  User-scoped Endpoints (require Bearer token unless DEV_MODE=true):")
	log.Println("  POST   /api/:userID/tasks                         - Create a task")
	log.Println("  GET    /api/:userID/tasks                         - List tasks (limit/offset)")
	log.Println("  GET    /api/:userID/tasks/:taskID                 - Get a task")
	log.Println("  PUT    /api/:userID/tasks/:taskID                 - Update a task")
	log.Println("  DELETE /api/:userID/tasks/:taskID                 - Delete a task")
	log.Println("  PATCH  /api/:userID/tasks/:taskID/complete        - Toggle completion")
	log.Println("  POST   /api/:userID/todos                         - Create a todo")
	log.Println("  GET    /api/:userID/todos                         - List todos (filterable)")
	log.Println("  GET    /api/:userID/todos/:todoID                 - Get a todo")
	log.Println("  PUT    /api/:userID/todos/:todoID                 - Update a todo")
	log.Println("  DELETE /api/:userID/todos/:todoID                 - Delete a todo")
	log.Println("  PATCH  /api/:userID/todos/:todoID/complete        - Toggle completion")
	log.Println("  POST   /api/:userID/categories                    - Create a category")
	log.Println("  GET    /api/:userID/categories                    - List categories")
	log.Println("  DELETE /api/:userID/categories/:categoryID        - Delete a category")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
