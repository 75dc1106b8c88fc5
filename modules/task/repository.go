package task

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/task-management-api/domain/task"
	"github.com/example/task-management-api/internal/database"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a task does not exist or is owned by a
// different user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("task not found")

// Repository provides owner-scoped access to task storage within a
// single session.
type Repository interface {
	Create(t *domain.Task) error
	FindByID(ownerID, taskID string) (*domain.Task, error)
	ListByOwner(ownerID string, limit, offset int) ([]domain.Task, error)
	CountByOwner(ownerID string) (int64, error)
	Save(t *domain.Task) error
	Delete(ownerID, taskID string) error
}

// Store runs a function against a transactional repository view. The
// transaction commits when fn returns nil and rolls back otherwise.
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

func (r *gormRepository) Create(t *domain.Task) error {
	if err := r.tx.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", database.Classify(err))
	}
	return nil
}

// FindByID performs the owner-scoped lookup used by every single-entity
// operation.
func (r *gormRepository) FindByID(ownerID, taskID string) (*domain.Task, error) {
	var t domain.Task
	err := r.tx.First(&t, "id = ? AND user_id = ?", taskID, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", database.Classify(err))
	}
	return &t, nil
}

// ListByOwner returns a page of the owner's tasks in creation order,
// tie-broken by id for pagination stability.
func (r *gormRepository) ListByOwner(ownerID string, limit, offset int) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.tx.
		Where("user_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", database.Classify(err))
	}
	return tasks, nil
}

func (r *gormRepository) CountByOwner(ownerID string) (int64, error) {
	var count int64
	err := r.tx.Model(&domain.Task{}).Where("user_id = ?", ownerID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", database.Classify(err))
	}
	return count, nil
}

func (r *gormRepository) Save(t *domain.Task) error {
	if err := r.tx.Save(t).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", database.Classify(err))
	}
	return nil
}

func (r *gormRepository) Delete(ownerID, taskID string) error {
	result := r.tx.Delete(&domain.Task{}, "id = ? AND user_id = ?", taskID, ownerID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", database.Classify(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
