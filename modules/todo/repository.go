package todo

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/task-management-api/domain/todo"
	"github.com/example/task-management-api/internal/database"
	"gorm.io/gorm"
)

var (
	// ErrTodoNotFound is returned when a todo does not exist or belongs
	// to a different user.
	ErrTodoNotFound = errors.New("todo not found")
	// ErrCategoryNotFound is returned when a category does not exist or
	// belongs to a different user.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists is returned when the owner already has a
	// category with the same name.
	ErrCategoryExists = errors.New("category with this name already exists")
)

// TodoFilter narrows a todo listing.
type TodoFilter struct {
	CategoryID  *string
	IsCompleted *bool
}

// Repository provides owner-scoped access to todo and category storage
// within a single session.
type Repository interface {
	CreateTodo(t *domain.Todo) error
	FindTodoByID(ownerID, todoID string) (*domain.Todo, error)
	ListTodosByOwner(ownerID string, filter TodoFilter, limit, offset int) ([]domain.Todo, error)
	CountTodosByOwner(ownerID string, filter TodoFilter) (int64, error)
	SaveTodo(t *domain.Todo) error
	DeleteTodo(ownerID, todoID string) error

	CreateCategory(c *domain.Category) error
	FindCategoryByID(ownerID, categoryID string) (*domain.Category, error)
	ListCategoriesByOwner(ownerID string) ([]domain.Category, error)
	DeleteCategory(ownerID, categoryID string) error
	// ClearCategoryRefs nulls category_id on the owner's todos that
	// reference the category. Run in the same session as the delete.
	ClearCategoryRefs(ownerID, categoryID string) error
}

// Store runs a function against a transactional repository view.
type Store interface {
	RunInSession(ctx context.Context, fn func(Repository) error) error
}

// NewStore creates a Store backed by the persistence gateway.
func NewStore(gw *database.Gateway) Store {
	return &gormStore{gw: gw}
}

type gormStore struct {
	gw *database.Gateway
}

func (s *gormStore) RunInSession(ctx context.Context, fn func(Repository) error) error {
	return s.gw.WithSession(ctx, func(tx *gorm.DB) error {
		return fn(&gormRepository{tx: tx})
	})
}

type gormRepository struct {
	tx *gorm.DB
}

// Compile-time interface check.
var _ Repository = (*gormRepository)(nil)

func (r *gormRepository) CreateTodo(t *domain.Todo) error {
	if err := r.tx.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", database.Classify(err))
	}
	return nil
}

func (r *gormRepository) FindTodoByID(ownerID, todoID string) (*domain.Todo, error) {
	var t domain.Todo
	err := r.tx.First(&t, "id = ? AND user_id = ?", todoID, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", database.Classify(err))
	}
	return &t, nil
}

func (r *gormRepository) todoQuery(ownerID string, filter TodoFilter) *gorm.DB {
	query := r.tx.Model(&domain.Todo{}).Where("user_id = ?", ownerID)
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.IsCompleted != nil {
		query = query.Where("is_completed = ?", *filter.IsCompleted)
	}
	return query
}

func (r *gormRepository) ListTodosByOwner(ownerID string, filter TodoFilter, limit, offset int) ([]domain.Todo, error) {
	var todos []domain.Todo
	err := r.todoQuery(ownerID, filter).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&todos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", database.Classify(err))
	}
	return todos, nil
}

func (r *gormRepository) CountTodosByOwner(ownerID string, filter TodoFilter) (int64, error) {
	var count int64
	if err := r.todoQuery(ownerID, filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", database.Classify(err))
	}
	return count, nil
}

func (r *gormRepository) SaveTodo(t *domain.Todo) error {
	if err := r.tx.Save(t).Error; err != nil {
		return fmt.Errorf("failed to save todo: %w", database.Classify(err))
	}
	return nil
}

func (r *gormRepository) DeleteTodo(ownerID, todoID string) error {
	result := r.tx.Delete(&domain.Todo{}, "id = ? AND user_id = ?", todoID, ownerID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete todo: %w", database.Classify(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (r *gormRepository) CreateCategory(c *domain.Category) error {
	if err := r.tx.Create(c).Error; err != nil {
		classified := database.Classify(err)
		var integrityErr *database.IntegrityError
		if errors.As(classified, &integrityErr) && integrityErr.Kind == database.IntegrityUnique {
			return ErrCategoryExists
		}
		return fmt.Errorf("failed to create category: %w", classified)
	}
	return nil
}

func (r *gormRepository) FindCategoryByID(ownerID, categoryID string) (*domain.Category, error) {
	var c domain.Category
	err := r.tx.First(&c, "id = ? AND user_id = ?", categoryID, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", database.Classify(err))
	}
	return &c, nil
}

func (r *gormRepository) ListCategoriesByOwner(ownerID string) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.tx.
		Where("user_id = ?", ownerID).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", database.Classify(err))
	}
	return categories, nil
}

func (r *gormRepository) DeleteCategory(ownerID, categoryID string) error {
	result := r.tx.Delete(&domain.Category{}, "id = ? AND user_id = ?", categoryID, ownerID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", database.Classify(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *gormRepository) ClearCategoryRefs(ownerID, categoryID string) error {
	err := r.tx.Model(&domain.Todo{}).
		Where("user_id = ? AND category_id = ?", ownerID, categoryID).
		Update("category_id", nil).Error
	if err != nil {
		return fmt.Errorf("failed to clear category references: %w", database.Classify(err))
	}
	return nil
}
