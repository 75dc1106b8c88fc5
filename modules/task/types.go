package task

import (
	"time"

	domain "github.com/example/task-management-api/domain/task"
	"github.com/example/task-management-api/internal/optional"
)

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ListTasksRequest represents a paginated task list request.
// A zero limit falls back to the default page size.
type ListTasksRequest struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// GetTaskRequest represents a single task retrieval request.
type GetTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// UpdateTaskRequest represents a partial task update. Absent fields are
// left untouched; an explicit null description clears it.
type UpdateTaskRequest struct {
	UserID      string                  `json:"user_id"`
	TaskID      string                  `json:"task_id"`
	Title       optional.Value[string]  `json:"title,omitzero"`
	Description optional.Value[string]  `json:"description,omitzero"`
	IsCompleted optional.Value[bool]    `json:"is_completed,omitzero"`
}

// DeleteTaskRequest represents a task deletion request.
type DeleteTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse represents a task deletion response.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// ToggleTaskRequest represents a completion toggle request.
type ToggleTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// TaskResponse represents a task in service responses.
type TaskResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListTasksResponse represents a page of tasks. Total is the owner's full
// task count irrespective of pagination.
type ListTasksResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// toTaskResponse converts a Task entity to a TaskResponse.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
