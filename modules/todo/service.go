package todo

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	domain "github.com/example/task-management-api/domain/todo"
	"github.com/google/uuid"
)

// Field bounds per the extended data model.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 2000
	MaxCategoryName      = 100
	DefaultPageSize      = 50
)

// Validation errors (exported for error checking via errors.Is).
var (
	ErrUserIDRequired       = errors.New("user id is required")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleTooLong         = errors.New("title must be at most 255 characters")
	ErrDescriptionTooLong   = errors.New("description must be at most 2000 characters")
	ErrPriorityOutOfRange   = errors.New("priority must be between 1 and 4")
	ErrNegativePagination   = errors.New("limit and offset must be non-negative")
	ErrTodoIDInvalid        = errors.New("todo id is not a valid UUID")
	ErrCategoryIDInvalid    = errors.New("category id is not a valid UUID")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryNameTooLong  = errors.New("category name must be at most 100 characters")
	ErrCompletedNotNullable = errors.New("is_completed cannot be null")
	ErrPriorityNotNullable  = errors.New("priority cannot be null")
	ErrTitleNotNullable     = errors.New("title cannot be null")
)

// TodoService defines the owner-scoped todo and category operations.
type TodoService interface {
	Create(ctx context.Context, req CreateTodoRequest) (TodoResponse, error)
	List(ctx context.Context, req ListTodosRequest) (ListTodosResponse, error)
	Get(ctx context.Context, req GetTodoRequest) (TodoResponse, error)
	Update(ctx context.Context, req UpdateTodoRequest) (TodoResponse, error)
	Delete(ctx context.Context, req DeleteTodoRequest) (DeleteTodoResponse, error)
	Toggle(ctx context.Context, req ToggleTodoRequest) (TodoResponse, error)

	CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryResponse, error)
	ListCategories(ctx context.Context, req ListCategoriesRequest) (ListCategoriesResponse, error)
	// DeleteCategory removes a category and nulls the category
	// reference on the owner's todos in the same session.
	DeleteCategory(ctx context.Context, req DeleteCategoryRequest) (DeleteCategoryResponse, error)
}

// TodoServiceImpl implements TodoService over a Store.
type TodoServiceImpl struct {
	store Store
}

// Compile-time interface check.
var _ TodoService = (*TodoServiceImpl)(nil)

// NewTodoService creates a new TodoService with the given store.
func NewTodoService(store Store) TodoService {
	return &TodoServiceImpl{store: store}
}

// Create handles the todo creation request. A referenced category must
// exist and belong to the same owner.
func (s *TodoServiceImpl) Create(ctx context.Context, req CreateTodoRequest) (TodoResponse, error) {
	if req.UserID == "" {
		return TodoResponse{}, ErrUserIDRequired
	}
	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return TodoResponse{}, err
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > MaxDescriptionLength {
		return TodoResponse{}, ErrDescriptionTooLong
	}

	priority := domain.DefaultPriority
	if req.Priority != nil {
		if *req.Priority < domain.MinPriority || *req.Priority > domain.MaxPriority {
			return TodoResponse{}, ErrPriorityOutOfRange
		}
		priority = *req.Priority
	}
	if req.CategoryID != nil {
		if _, err := uuid.Parse(*req.CategoryID); err != nil {
			return TodoResponse{}, ErrCategoryIDInvalid
		}
	}

	now := time.Now().UTC()
	t := &domain.Todo{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Title:       title,
		Description: req.Description,
		IsCompleted: false,
		Priority:    priority,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.RunInSession(ctx, func(repo Repository) error {
		if t.CategoryID != nil {
			if _, err := repo.FindCategoryByID(req.UserID, *t.CategoryID); err != nil {
				return err
			}
		}
		return repo.CreateTodo(t)
	})
	if err != nil {
		return TodoResponse{}, err
	}
	return toTodoResponse(t), nil
}

// List handles the paginated, optionally filtered list request.
func (s *TodoServiceImpl) List(ctx context.Context, req ListTodosRequest) (ListTodosResponse, error) {
	if req.UserID == "" {
		return ListTodosResponse{}, ErrUserIDRequired
	}
	if req.Limit < 0 || req.Offset < 0 {
		return ListTodosResponse{}, ErrNegativePagination
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}
	if req.CategoryID != nil {
		if _, err := uuid.Parse(*req.CategoryID); err != nil {
			return ListTodosResponse{}, ErrCategoryIDInvalid
		}
	}

	filter := TodoFilter{CategoryID: req.CategoryID, IsCompleted: req.IsCompleted}

	var (
		todos []domain.Todo
		total int64
	)
	err := s.store.RunInSession(ctx, func(repo Repository) error {
		var err error
		if total, err = repo.CountTodosByOwner(req.UserID, filter); err != nil {
			return err
		}
		todos, err = repo.ListTodosByOwner(req.UserID, filter, limit, req.Offset)
		return err
	})
	if err != nil {
		return ListTodosResponse{}, err
	}

	resp := ListTodosResponse{
		Todos:  make([]TodoResponse, 0, len(todos)),
		Total:  total,
		Limit:  limit,
		Offset: req.Offset,
	}
	for i := range todos {
		resp.Todos = append(resp.Todos, toTodoResponse(&todos[i]))
	}
	return resp, nil
}

// Get handles the single todo retrieval request.
func (s *TodoServiceImpl) Get(ctx context.Context, req GetTodoRequest) (TodoResponse, error) {
	if err := validateTodoLookup(req.UserID, req.TodoID); err != nil {
		return TodoResponse{}, err
	}

	var t *domain.Todo
	err := s.store.RunInSession(ctx, func(repo Repository) error {
		var err error
		t, err = repo.FindTodoByID(req.UserID, req.TodoID)
		return err
	})
	if err != nil {
		return TodoResponse{}, err
	}
	return toTodoResponse(t), nil
}

// Update handles the partial update request. Description, due date and
// category are nullable: an explicit null clears them.
func (s *TodoServiceImpl) Update(ctx context.Context, req UpdateTodoRequest) (TodoResponse, error) {
	if err := validateTodoLookup(req.UserID, req.TodoID); err != nil {
		return TodoResponse{}, err
	}

	var title string
	if req.Title.IsSet() {
		value, ok := req.Title.Get()
		if !ok {
			return TodoResponse{}, ErrTitleNotNullable
		}
		title = strings.TrimSpace(value)
		if err := validateTitle(title); err != nil {
			return TodoResponse{}, err
		}
	}
	if desc, ok := req.Description.Get(); ok && utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return TodoResponse{}, ErrDescriptionTooLong
	}
	if req.IsCompleted.IsNull() {
		return TodoResponse{}, ErrCompletedNotNullable
	}
	if req.Priority.IsNull() {
		return TodoResponse{}, ErrPriorityNotNullable
	}
	if priority, ok := req.Priority.Get(); ok {
		if priority < domain.MinPriority || priority > domain.MaxPriority {
			return TodoResponse{}, ErrPriorityOutOfRange
		}
	}
	if categoryID, ok := req.CategoryID.Get(); ok {
		if _, err := uuid.Parse(categoryID); err != nil {
			return TodoResponse{}, ErrCategoryIDInvalid
		}
	}

	var t *domain.Todo
	err := s.store.RunInSession(ctx, func(repo Repository) error {
		var err error
		t, err = repo.FindTodoByID(req.UserID, req.TodoID)
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
		if priority, ok := req.Priority.Get(); ok {
			t.Priority = priority
		}
		if req.DueDate.IsSet() {
			if value, ok := req.DueDate.Get(); ok {
				t.DueDate = &value
			} else {
				t.DueDate = nil
			}
		}
		if req.CategoryID.IsSet() {
			if value, ok := req.CategoryID.Get(); ok {
				if _, err := repo.FindCategoryByID(req.UserID, value); err != nil {
					return err
				}
				t.CategoryID = &value
			} else {
				t.CategoryID = nil
			}
		}
		t.UpdatedAt = time.Now().UTC()

		return repo.SaveTodo(t)
	})
	if err != nil {
		return TodoResponse{}, err
	}
	return toTodoResponse(t), nil
}

// Delete handles the hard-delete request.
func (s *TodoServiceImpl) Delete(ctx context.Context, req DeleteTodoRequest) (DeleteTodoResponse, error) {
	if err := validateTodoLookup(req.UserID, req.TodoID); err != nil {
		return DeleteTodoResponse{}, err
	}

	err := s.store.RunInSession(ctx, func(repo Repository) error {
		return repo.DeleteTodo(req.UserID, req.TodoID)
	})
	if err != nil {
		return DeleteTodoResponse{Deleted: false, ID: req.TodoID}, err
	}
	return DeleteTodoResponse{Deleted: true, ID: req.TodoID}, nil
}

// Toggle handles the completion toggle request.
func (s *TodoServiceImpl) Toggle(ctx context.Context, req ToggleTodoRequest) (TodoResponse, error) {
	if err := validateTodoLookup(req.UserID, req.TodoID); err != nil {
		return TodoResponse{}, err
	}

	var t *domain.Todo
	err := s.store.RunInSession(ctx, func(repo Repository) error {
		var err error
		t, err = repo.FindTodoByID(req.UserID, req.TodoID)
		if err != nil {
			return err
		}
		t.IsCompleted = !t.IsCompleted
		t.UpdatedAt = time.Now().UTC()
		return repo.SaveTodo(t)
	})
	if err != nil {
		return TodoResponse{}, err
	}
	return toTodoResponse(t), nil
}

// CreateCategory handles the category creation request. Names are unique
// per owner.
func (s *TodoServiceImpl) CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryResponse, error) {
	if req.UserID == "" {
		return CategoryResponse{}, ErrUserIDRequired
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return CategoryResponse{}, ErrCategoryNameRequired
	}
	if utf8.RuneCountInString(name) > MaxCategoryName {
		return CategoryResponse{}, ErrCategoryNameTooLong
	}

	now := time.Now().UTC()
	c := &domain.Category{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Name:      name,
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.store.RunInSession(ctx, func(repo Repository) error {
		return repo.CreateCategory(c)
	})
	if err != nil {
		return CategoryResponse{}, err
	}
	return toCategoryResponse(c), nil
}

// ListCategories handles the category list request.
func (s *TodoServiceImpl) ListCategories(ctx context.Context, req ListCategoriesRequest) (ListCategoriesResponse, error) {
	if req.UserID == "" {
		return ListCategoriesResponse{}, ErrUserIDRequired
	}

	var categories []domain.Category
	err := s.store.RunInSession(ctx, func(repo Repository) error {
		var err error
		categories, err = repo.ListCategoriesByOwner(req.UserID)
		return err
	})
	if err != nil {
		return ListCategoriesResponse{}, err
	}

	resp := ListCategoriesResponse{
		Categories: make([]CategoryResponse, 0, len(categories)),
		Total:      len(categories),
	}
	for i := range categories {
		resp.Categories = append(resp.Categories, toCategoryResponse(&categories[i]))
	}
	return resp, nil
}

// DeleteCategory removes a category and detaches the owner's todos from
// it inside one session, so a failed delete leaves no todo detached.
func (s *TodoServiceImpl) DeleteCategory(ctx context.Context, req DeleteCategoryRequest) (DeleteCategoryResponse, error) {
	if req.UserID == "" {
		return DeleteCategoryResponse{}, ErrUserIDRequired
	}
	if _, err := uuid.Parse(req.CategoryID); err != nil {
		return DeleteCategoryResponse{}, ErrCategoryIDInvalid
	}

	err := s.store.RunInSession(ctx, func(repo Repository) error {
		if _, err := repo.FindCategoryByID(req.UserID, req.CategoryID); err != nil {
			return err
		}
		if err := repo.ClearCategoryRefs(req.UserID, req.CategoryID); err != nil {
			return err
		}
		return repo.DeleteCategory(req.UserID, req.CategoryID)
	})
	if err != nil {
		return DeleteCategoryResponse{Deleted: false, ID: req.CategoryID}, err
	}
	return DeleteCategoryResponse{Deleted: true, ID: req.CategoryID}, nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateTodoLookup(userID, todoID string) error {
	if userID == "" {
		return ErrUserIDRequired
	}
	if _, err := uuid.Parse(todoID); err != nil {
		return ErrTodoIDInvalid
	}
	return nil
}
