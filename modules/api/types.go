package api

import (
	"time"

	"github.com/example/task-management-api/internal/optional"
)

// CreateTaskBody is the client payload for task creation.
type CreateTaskBody struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateTaskBody is the client payload for partial task updates. Fields
// left out of the JSON body are not modified; a null description clears
// the stored value.
type UpdateTaskBody struct {
	Title       optional.Value[string] `json:"title,omitzero"`
	Description optional.Value[string] `json:"description,omitzero"`
	IsCompleted optional.Value[bool]   `json:"is_completed,omitzero"`
}

// CreateTodoBody is the client payload for todo creation.
type CreateTodoBody struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CategoryID  *string    `json:"category_id,omitempty"`
}

// UpdateTodoBody is the client payload for partial todo updates.
type UpdateTodoBody struct {
	Title       optional.Value[string]    `json:"title,omitzero"`
	Description optional.Value[string]    `json:"description,omitzero"`
	IsCompleted optional.Value[bool]      `json:"is_completed,omitzero"`
	Priority    optional.Value[int]       `json:"priority,omitzero"`
	DueDate     optional.Value[time.Time] `json:"due_date,omitzero"`
	CategoryID  optional.Value[string]    `json:"category_id,omitzero"`
}

// CreateCategoryBody is the client payload for category creation.
type CreateCategoryBody struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
