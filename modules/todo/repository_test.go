package todo

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/example/task-management-api/domain/todo"
	"github.com/example/task-management-api/internal/database"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
)

// setupTestStore creates a Store over an in-memory SQLite database.
func setupTestStore(t *testing.T) Store {
	t.Helper()

	gw, err := database.NewGateway(database.Config{Dialector: sqlite.Open(":memory:"), MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("NewGateway() error = %v", err)
	}
	t.Cleanup(func() { _ = gw.Dispose() })

	db, err := gw.Engine(context.Background())
	if err != nil {
		t.Fatalf("Engine() error = %v", err)
	}
	if err := db.AutoMigrate(&domain.Category{}, &domain.Todo{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewStore(gw)
}

func seedCategory(t *testing.T, store Store, ownerID, name string) *domain.Category {
	t.Helper()

	now := time.Now().UTC()
	c := &domain.Category{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := store.RunInSession(context.Background(), func(repo Repository) error {
		return repo.CreateCategory(c)
	})
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return c
}

func seedTodo(t *testing.T, store Store, ownerID, title string, completed bool, categoryID *string) *domain.Todo {
	t.Helper()

	now := time.Now().UTC()
	todo := &domain.Todo{
		ID:          uuid.New().String(),
		UserID:      ownerID,
		Title:       title,
		IsCompleted: completed,
		Priority:    domain.DefaultPriority,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := store.RunInSession(context.Background(), func(repo Repository) error {
		return repo.CreateTodo(todo)
	})
	if err != nil {
		t.Fatalf("failed to seed todo: %v", err)
	}
	return todo
}

func TestGormRepository_CategoryUniqueness(t *testing.T) {
	store := setupTestStore(t)
	seedCategory(t, store, "user-1", "errands")

	t.Run("same owner conflicts", func(t *testing.T) {
		now := time.Now().UTC()
		err := store.RunInSession(context.Background(), func(repo Repository) error {
			return repo.CreateCategory(&domain.Category{
				ID:        uuid.New().String(),
				UserID:    "user-1",
				Name:      "errands",
				CreatedAt: now,
				UpdatedAt: now,
			})
		})
		if !errors.Is(err, ErrCategoryExists) {
			t.Errorf("expected ErrCategoryExists, got %v", err)
		}
	})

	t.Run("different owner reuses the name", func(t *testing.T) {
		seedCategory(t, store, "user-2", "errands")
	})
}

func TestGormRepository_TodoFilters(t *testing.T) {
	store := setupTestStore(t)

	category := seedCategory(t, store, "user-1", "errands")
	seedTodo(t, store, "user-1", "open tagged", false, &category.ID)
	seedTodo(t, store, "user-1", "done tagged", true, &category.ID)
	seedTodo(t, store, "user-1", "open plain", false, nil)
	seedTodo(t, store, "user-2", "foreign", false, nil)

	completed := true
	open := false

	tests := []struct {
		name   string
		filter TodoFilter
		want   int64
	}{
		{"no filter", TodoFilter{}, 3},
		{"completed only", TodoFilter{IsCompleted: &completed}, 1},
		{"open only", TodoFilter{IsCompleted: &open}, 2},
		{"category only", TodoFilter{CategoryID: &category.ID}, 2},
		{"category and open", TodoFilter{CategoryID: &category.ID, IsCompleted: &open}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.RunInSession(context.Background(), func(repo Repository) error {
				count, err := repo.CountTodosByOwner("user-1", tt.filter)
				if err != nil {
					return err
				}
				if count != tt.want {
					t.Errorf("expected count %d, got %d", tt.want, count)
				}

				todos, err := repo.ListTodosByOwner("user-1", tt.filter, 10, 0)
				if err != nil {
					return err
				}
				if int64(len(todos)) != tt.want {
					t.Errorf("expected %d todos, got %d", tt.want, len(todos))
				}
				return nil
			})
			if err != nil {
				t.Fatalf("session error = %v", err)
			}
		})
	}
}

func TestGormRepository_ClearCategoryRefs(t *testing.T) {
	store := setupTestStore(t)

	category := seedCategory(t, store, "user-1", "errands")
	tagged := seedTodo(t, store, "user-1", "tagged", false, &category.ID)
	plain := seedTodo(t, store, "user-1", "plain", false, nil)

	err := store.RunInSession(context.Background(), func(repo Repository) error {
		if err := repo.ClearCategoryRefs("user-1", category.ID); err != nil {
			return err
		}
		return repo.DeleteCategory("user-1", category.ID)
	})
	if err != nil {
		t.Fatalf("session error = %v", err)
	}

	err = store.RunInSession(context.Background(), func(repo Repository) error {
		detached, err := repo.FindTodoByID("user-1", tagged.ID)
		if err != nil {
			return err
		}
		if detached.CategoryID != nil {
			t.Errorf("expected category reference cleared, got %v", *detached.CategoryID)
		}

		untouched, err := repo.FindTodoByID("user-1", plain.ID)
		if err != nil {
			return err
		}
		if untouched.CategoryID != nil {
			t.Error("expected plain todo to stay detached")
		}

		_, err = repo.FindCategoryByID("user-1", category.ID)
		if !errors.Is(err, ErrCategoryNotFound) {
			t.Errorf("expected ErrCategoryNotFound after delete, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("session error = %v", err)
	}
}

func TestGormRepository_OwnerScoping(t *testing.T) {
	store := setupTestStore(t)

	todo := seedTodo(t, store, "user-1", "mine", false, nil)
	category := seedCategory(t, store, "user-1", "errands")

	t.Run("foreign todo lookup", func(t *testing.T) {
		err := store.RunInSession(context.Background(), func(repo Repository) error {
			_, err := repo.FindTodoByID("user-2", todo.ID)
			return err
		})
		if !errors.Is(err, ErrTodoNotFound) {
			t.Errorf("expected ErrTodoNotFound, got %v", err)
		}
	})

	t.Run("foreign category lookup", func(t *testing.T) {
		err := store.RunInSession(context.Background(), func(repo Repository) error {
			_, err := repo.FindCategoryByID("user-2", category.ID)
			return err
		})
		if !errors.Is(err, ErrCategoryNotFound) {
			t.Errorf("expected ErrCategoryNotFound, got %v", err)
		}
	})

	t.Run("foreign delete", func(t *testing.T) {
		err := store.RunInSession(context.Background(), func(repo Repository) error {
			return repo.DeleteTodo("user-2", todo.ID)
		})
		if !errors.Is(err, ErrTodoNotFound) {
			t.Errorf("expected ErrTodoNotFound, got %v", err)
		}
	})
}
