package todo

import (
	"time"

	domain "github.com/example/task-management-api/domain/todo"
	"github.com/example/task-management-api/internal/optional"
)

// CreateTodoRequest represents a todo creation request.
type CreateTodoRequest struct {
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CategoryID  *string    `json:"category_id,omitempty"`
}

// ListTodosRequest represents a paginated todo list request with
// optional filters.
type ListTodosRequest struct {
	UserID      string  `json:"user_id"`
	Limit       int     `json:"limit"`
	Offset      int     `json:"offset"`
	CategoryID  *string `json:"category_id,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
}

// GetTodoRequest represents a single todo retrieval request.
type GetTodoRequest struct {
	UserID string `json:"user_id"`
	TodoID string `json:"todo_id"`
}

// UpdateTodoRequest represents a partial todo update. Absent fields are
// left untouched; explicit nulls clear the nullable fields.
type UpdateTodoRequest struct {
	UserID      string                    `json:"user_id"`
	TodoID      string                    `json:"todo_id"`
	Title       optional.Value[string]    `json:"title,omitzero"`
	Description optional.Value[string]    `json:"description,omitzero"`
	IsCompleted optional.Value[bool]      `json:"is_completed,omitzero"`
	Priority    optional.Value[int]       `json:"priority,omitzero"`
	DueDate     optional.Value[time.Time] `json:"due_date,omitzero"`
	CategoryID  optional.Value[string]    `json:"category_id,omitzero"`
}

// DeleteTodoRequest represents a todo deletion request.
type DeleteTodoRequest struct {
	UserID string `json:"user_id"`
	TodoID string `json:"todo_id"`
}

// DeleteTodoResponse represents a todo deletion response.
type DeleteTodoResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// ToggleTodoRequest represents a completion toggle request.
type ToggleTodoRequest struct {
	UserID string `json:"user_id"`
	TodoID string `json:"todo_id"`
}

// TodoResponse represents a todo in service responses.
type TodoResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	IsCompleted bool       `json:"is_completed"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  *string    `json:"category_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListTodosResponse represents a page of todos.
type ListTodosResponse struct {
	Todos  []TodoResponse `json:"todos"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// CreateCategoryRequest represents a category creation request.
type CreateCategoryRequest struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Color  *string `json:"color,omitempty"`
}

// ListCategoriesRequest represents a category list request.
type ListCategoriesRequest struct {
	UserID string `json:"user_id"`
}

// DeleteCategoryRequest represents a category deletion request.
type DeleteCategoryRequest struct {
	UserID     string `json:"user_id"`
	CategoryID string `json:"category_id"`
}

// DeleteCategoryResponse represents a category deletion response.
type DeleteCategoryResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// CategoryResponse represents a category in service responses.
type CategoryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListCategoriesResponse represents the owner's categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Total      int                `json:"total"`
}

func toTodoResponse(t *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CategoryID:  t.CategoryID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
