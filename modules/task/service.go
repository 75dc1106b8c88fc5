package task

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	domain "github.com/example/task-management-api/domain/task"
	"github.com/google/uuid"
)

// Field bounds per the task data model.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 2000
	DefaultPageSize      = 50
)

// Validation errors (exported for error checking via errors.Is).
var (
	ErrUserIDRequired       = errors.New("user id is required")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleTooLong         = errors.New("title must be at most 255 characters")
	ErrDescriptionTooLong   = errors.New("description must be at most 2000 characters")
	ErrNegativePagination   = errors.New("limit and offset must be non-negative")
	ErrTaskIDInvalid        = errors.New("task id is not a valid UUID")
	ErrCompletedNotNullable = errors.New("is_completed cannot be null")
)

// TaskService defines the owner-scoped task operations. Every operation
// trusts the user id it is handed; the HTTP surface enforces that it
// matches the authenticated identity.
type TaskService interface {
	// Create persists a new task for the owner.
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	// List returns a page of the owner's tasks plus the full count.
	List(ctx context.Context, req ListTasksRequest) (ListTasksResponse, error)
	// Get retrieves a single task via the owner-scoped lookup.
	Get(ctx context.Context, req GetTaskRequest) (TaskResponse, error)
	// Update applies a partial update to a task.
	Update(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error)
	// Delete hard-deletes a task.
	Delete(ctx context.Context, req DeleteTaskRequest) (DeleteTaskResponse, error)
	// Toggle flips the completion flag. Two toggles restore the
	// original state; callers needing an idempotent write use Update.
	Toggle(ctx context.Context, req ToggleTaskRequest) (TaskResponse, error)
}

// TaskServiceImpl implements TaskService over a Store.
type TaskServiceImpl struct {
	store Store
}

// Compile-time interface check.
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService with the given store.
func NewTaskService(store Store) TaskService {
	return &TaskServiceImpl{store: store}
}

// Create handles the task creation request.
func (s *TaskServiceImpl) Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error) {
	if req.UserID == "" {
		return TaskResponse{}, ErrUserIDRequired
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return TaskResponse{}, ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return TaskResponse{}, ErrTitleTooLong
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > MaxDescriptionLength {
		return TaskResponse{}, ErrDescriptionTooLong
	}

	now := time.Now().UTC()
	t := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Title:       title,
		Description: req.Description,
		IsCompleted: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.RunInSession(ctx, func(repo Repository) error {
		return repo.Create(t)
	})
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// List handles the paginated list request.
func (s *TaskServiceImpl) List(ctx context.Context, req ListTasksRequest) (ListTasksResponse, error) {
	if req.UserID == "" {
		return ListTasksResponse{}, ErrUserIDRequired
	}
	if req.Limit < 0 || req.Offset < 0 {
		return ListTasksResponse{}, ErrNegativePagination
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}

	var (
		tasks []domain.Task
		total int64
	)
	err := s.store.RunInSession(ctx, func(repo Repository) error {
		var err error
		if total, err = repo.CountByOwner(req.UserID); err != nil {
			return err
		}
		tasks, err = repo.ListByOwner(req.UserID, limit, req.Offset)
		return err
	})
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks:  make([]TaskResponse, 0, len(tasks)),
		Total:  total,
		Limit:  limit,
		Offset: req.Offset,
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i]))
	}
	return resp, nil
}

// Get handles the single task retrieval request.
func (s *TaskServiceImpl) Get(ctx context.Context, req GetTaskRequest) (TaskResponse, error) {
	if err := validateLookup(req.UserID, req.TaskID); err != nil {
		return TaskResponse{}, err
	}

	var t *domain.Task
	err := s.store.RunInSession(ctx, func(repo Repository) error {
		var err error
		t, err = repo.FindByID(req.UserID, req.TaskID)
		return err
	})
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// Update handles the partial update request. Absent fields stay
// untouched; a null description clears the column.
func (s *TaskServiceImpl) Update(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error) {
	if err := validateLookup(req.UserID, req.TaskID); err != nil {
		return TaskResponse{}, err
	}

	var title string
	if req.Title.IsSet() {
		value, ok := req.Title.Get()
		if !ok {
			return TaskResponse{}, ErrTitleRequired
		}
		title = strings.TrimSpace(value)
		if title == "" {
			return TaskResponse{}, ErrTitleRequired
		}
		if utf8.RuneCountInString(title) > MaxTitleLength {
			return TaskResponse{}, ErrTitleTooLong
		}
	}
	if desc, ok := req.Description.Get(); ok && utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return TaskResponse{}, ErrDescriptionTooLong
	}
	if req.IsCompleted.IsNull() {
		return TaskResponse{}, ErrCompletedNotNullable
	}

	var t *domain.Task
	err := s.store.RunInSession(ctx, func(repo Repository) error {
		var err error
		t, err = repo.FindByID(req.UserID, req.TaskID)
		if err != nil {
			return err
		}

		if req.Title.IsSet() {
			t.Title = title
		}
		if req.Description.IsSet() {
			if value, ok := req.Description.Get(); ok {
				t.Description = &value
			} else {
				t.Description = nil
			}
		}
		if completed, ok := req.IsCompleted.Get(); ok {
			t.IsCompleted = completed
		}
		t.UpdatedAt = time.Now().UTC()

		return repo.Save(t)
	})
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// Delete handles the hard-delete request.
func (s *TaskServiceImpl) Delete(ctx context.Context, req DeleteTaskRequest) (DeleteTaskResponse, error) {
	if err := validateLookup(req.UserID, req.TaskID); err != nil {
		return DeleteTaskResponse{}, err
	}

	err := s.store.RunInSession(ctx, func(repo Repository) error {
		return repo.Delete(req.UserID, req.TaskID)
	})
	if err != nil {
		return DeleteTaskResponse{Deleted: false, ID: req.TaskID}, err
	}
	return DeleteTaskResponse{Deleted: true, ID: req.TaskID}, nil
}

// Toggle handles the completion toggle request.
func (s *TaskServiceImpl) Toggle(ctx context.Context, req ToggleTaskRequest) (TaskResponse, error) {
	if err := validateLookup(req.UserID, req.TaskID); err != nil {
		return TaskResponse{}, err
	}

	var t *domain.Task
	err := s.store.RunInSession(ctx, func(repo Repository) error {
		var err error
		t, err = repo.FindByID(req.UserID, req.TaskID)
		if err != nil {
			return err
		}
		t.IsCompleted = !t.IsCompleted
		t.UpdatedAt = time.Now().UTC()
		return repo.Save(t)
	})
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

func validateLookup(userID, taskID string) error {
	if userID == "" {
		return ErrUserIDRequired
	}
	if _, err := uuid.Parse(taskID); err != nil {
		return ErrTaskIDInvalid
	}
	return nil
}
