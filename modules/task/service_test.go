package task

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	domain "github.com/example/task-management-api/domain/task"
	"github.com/example/task-management-api/internal/optional"
	"github.com/google/uuid"
)

// mockRepository is an in-memory test double implementing Repository.
type mockRepository struct {
	tasks map[string]*domain.Task

	createErr error
	findErr   error
	listErr   error
	countErr  error
	saveErr   error
	deleteErr error
}

// Compile-time interface check.
var _ Repository = (*mockRepository)(nil)

func newMockRepository() *mockRepository {
	return &mockRepository{tasks: make(map[string]*domain.Task)}
}

func (m *mockRepository) Create(t *domain.Task) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *t
	m.tasks[t.ID] = &copied
	return nil
}

func (m *mockRepository) FindByID(ownerID, taskID string) (*domain.Task, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	t, exists := m.tasks[taskID]
	if !exists || t.UserID != ownerID {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockRepository) ListByOwner(ownerID string, limit, offset int) ([]domain.Task, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	owned := make([]domain.Task, 0)
	for _, t := range m.tasks {
		if t.UserID == ownerID {
			owned = append(owned, *t)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.Before(owned[j].CreatedAt)
		}
		return owned[i].ID < owned[j].ID
	})

	if offset >= len(owned) {
		return []domain.Task{}, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

func (m *mockRepository) CountByOwner(ownerID string) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	var count int64
	for _, t := range m.tasks {
		if t.UserID == ownerID {
			count++
		}
	}
	return count, nil
}

func (m *mockRepository) Save(t *domain.Task) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	copied := *t
	m.tasks[t.ID] = &copied
	return nil
}

func (m *mockRepository) Delete(ownerID, taskID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	t, exists := m.tasks[taskID]
	if !exists || t.UserID != ownerID {
		return ErrNotFound
	}
	delete(m.tasks, taskID)
	return nil
}

// mockStore hands the same repository to every session.
type mockStore struct {
	repo   *mockRepository
	runErr error
}

func (m *mockStore) RunInSession(_ context.Context, fn func(Repository) error) error {
	if m.runErr != nil {
		return m.runErr
	}
	return fn(m.repo)
}

func newTestService() (TaskService, *mockRepository) {
	repo := newMockRepository()
	return NewTaskService(&mockStore{repo: repo}), repo
}

func strPtr(s string) *string { return &s }

func TestTaskService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, _ := newTestService()

		resp, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID:      "user-1",
			Title:       "Write report",
			Description: strPtr("quarterly numbers"),
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if _, err := uuid.Parse(resp.ID); err != nil {
			t.Errorf("expected UUID id, got %q", resp.ID)
		}
		if resp.UserID != "user-1" {
			t.Errorf("expected user id %q, got %q", "user-1", resp.UserID)
		}
		if resp.IsCompleted {
			t.Error("expected new task to start incomplete")
		}
		if !resp.CreatedAt.Equal(resp.UpdatedAt) {
			t.Error("expected created_at and updated_at to match on creation")
		}
	})

	t.Run("title is trimmed", func(t *testing.T) {
		svc, _ := newTestService()

		resp, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID: "user-1",
			Title:  "  padded title  ",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if resp.Title != "padded title" {
			t.Errorf("expected trimmed title, got %q", resp.Title)
		}
	})

	t.Run("missing user id", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Create(context.Background(), CreateTaskRequest{Title: "x"})
		if !errors.Is(err, ErrUserIDRequired) {
			t.Errorf("expected ErrUserIDRequired, got %v", err)
		}
	})

	t.Run("blank title", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID: "user-1",
			Title:  "   ",
		})
		if !errors.Is(err, ErrTitleRequired) {
			t.Errorf("expected ErrTitleRequired, got %v", err)
		}
	})

	t.Run("title too long", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID: "user-1",
			Title:  strings.Repeat("a", MaxTitleLength+1),
		})
		if !errors.Is(err, ErrTitleTooLong) {
			t.Errorf("expected ErrTitleTooLong, got %v", err)
		}
	})

	t.Run("title length counted in runes", func(t *testing.T) {
		svc, _ := newTestService()

		// 255 two-byte runes exceed 255 bytes but stay within the limit.
		_, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID: "user-1",
			Title:  strings.Repeat("é", MaxTitleLength),
		})
		if err != nil {
			t.Errorf("expected multi-byte title at the limit to pass, got %v", err)
		}
	})

	t.Run("description too long", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID:      "user-1",
			Title:       "x",
			Description: strPtr(strings.Repeat("d", MaxDescriptionLength+1)),
		})
		if !errors.Is(err, ErrDescriptionTooLong) {
			t.Errorf("expected ErrDescriptionTooLong, got %v", err)
		}
	})
}

func TestTaskService_List(t *testing.T) {
	t.Run("pagination with total", func(t *testing.T) {
		svc, _ := newTestService()

		for range 5 {
			if _, err := svc.Create(context.Background(), CreateTaskRequest{
				UserID: "user-1",
				Title:  "task",
			}); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}

		resp, err := svc.List(context.Background(), ListTasksRequest{
			UserID: "user-1",
			Limit:  2,
			Offset: 0,
		})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}

		if len(resp.Tasks) != 2 {
			t.Errorf("expected 2 tasks in page, got %d", len(resp.Tasks))
		}
		if resp.Total != 5 {
			t.Errorf("expected total 5 regardless of page, got %d", resp.Total)
		}
	})

	t.Run("default limit", func(t *testing.T) {
		svc, _ := newTestService()

		resp, err := svc.List(context.Background(), ListTasksRequest{UserID: "user-1"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if resp.Limit != DefaultPageSize {
			t.Errorf("expected default limit %d, got %d", DefaultPageSize, resp.Limit)
		}
		if resp.Tasks == nil {
			t.Error("expected empty slice, got nil")
		}
	})

	t.Run("negative pagination rejected", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.List(context.Background(), ListTasksRequest{
			UserID: "user-1",
			Limit:  -1,
		})
		if !errors.Is(err, ErrNegativePagination) {
			t.Errorf("expected ErrNegativePagination, got %v", err)
		}

		_, err = svc.List(context.Background(), ListTasksRequest{
			UserID: "user-1",
			Offset: -1,
		})
		if !errors.Is(err, ErrNegativePagination) {
			t.Errorf("expected ErrNegativePagination, got %v", err)
		}
	})

	t.Run("owner isolation", func(t *testing.T) {
		svc, _ := newTestService()

		if _, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID: "user-1",
			Title:  "mine",
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if _, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID: "user-2",
			Title:  "theirs",
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		resp, err := svc.List(context.Background(), ListTasksRequest{UserID: "user-1"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if resp.Total != 1 {
			t.Errorf("expected 1 task for user-1, got %d", resp.Total)
		}
		if len(resp.Tasks) == 1 && resp.Tasks[0].Title != "mine" {
			t.Errorf("expected task %q, got %q", "mine", resp.Tasks[0].Title)
		}
	})
}

func TestTaskService_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, _ := newTestService()

		created, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID: "user-1",
			Title:  "find me",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		resp, err := svc.Get(context.Background(), GetTaskRequest{
			UserID: "user-1",
			TaskID: created.ID,
		})
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if resp.Title != "find me" {
			t.Errorf("expected title %q, got %q", "find me", resp.Title)
		}
	})

	t.Run("invalid UUID", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Get(context.Background(), GetTaskRequest{
			UserID: "user-1",
			TaskID: "not-a-uuid",
		})
		if !errors.Is(err, ErrTaskIDInvalid) {
			t.Errorf("expected ErrTaskIDInvalid, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Get(context.Background(), GetTaskRequest{
			UserID: "user-1",
			TaskID: uuid.New().String(),
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("other owner's task reads as not found", func(t *testing.T) {
		svc, _ := newTestService()

		created, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID: "user-1",
			Title:  "private",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		_, err = svc.Get(context.Background(), GetTaskRequest{
			UserID: "user-2",
			TaskID: created.ID,
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for foreign task, got %v", err)
		}
	})
}

func TestTaskService_Update(t *testing.T) {
	create := func(t *testing.T, svc TaskService) TaskResponse {
		t.Helper()
		created, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID:      "user-1",
			Title:       "original",
			Description: strPtr("original description"),
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		return created
	}

	t.Run("absent fields stay untouched", func(t *testing.T) {
		svc, _ := newTestService()
		created := create(t, svc)

		resp, err := svc.Update(context.Background(), UpdateTaskRequest{
			UserID: "user-1",
			TaskID: created.ID,
			Title:  optional.Of("renamed"),
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		if resp.Title != "renamed" {
			t.Errorf("expected title %q, got %q", "renamed", resp.Title)
		}
		if resp.Description == nil || *resp.Description != "original description" {
			t.Errorf("expected description untouched, got %v", resp.Description)
		}
		if resp.IsCompleted {
			t.Error("expected is_completed untouched")
		}
	})

	t.Run("null description clears it", func(t *testing.T) {
		svc, _ := newTestService()
		created := create(t, svc)

		resp, err := svc.Update(context.Background(), UpdateTaskRequest{
			UserID:      "user-1",
			TaskID:      created.ID,
			Description: optional.Null[string](),
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if resp.Description != nil {
			t.Errorf("expected description cleared, got %q", *resp.Description)
		}
	})

	t.Run("null title rejected", func(t *testing.T) {
		svc, _ := newTestService()
		created := create(t, svc)

		_, err := svc.Update(context.Background(), UpdateTaskRequest{
			UserID: "user-1",
			TaskID: created.ID,
			Title:  optional.Null[string](),
		})
		if !errors.Is(err, ErrTitleRequired) {
			t.Errorf("expected ErrTitleRequired, got %v", err)
		}
	})

	t.Run("null is_completed rejected", func(t *testing.T) {
		svc, _ := newTestService()
		created := create(t, svc)

		_, err := svc.Update(context.Background(), UpdateTaskRequest{
			UserID:      "user-1",
			TaskID:      created.ID,
			IsCompleted: optional.Null[bool](),
		})
		if !errors.Is(err, ErrCompletedNotNullable) {
			t.Errorf("expected ErrCompletedNotNullable, got %v", err)
		}
	})

	t.Run("blank title rejected", func(t *testing.T) {
		svc, _ := newTestService()
		created := create(t, svc)

		_, err := svc.Update(context.Background(), UpdateTaskRequest{
			UserID: "user-1",
			TaskID: created.ID,
			Title:  optional.Of("   "),
		})
		if !errors.Is(err, ErrTitleRequired) {
			t.Errorf("expected ErrTitleRequired, got %v", err)
		}
	})

	t.Run("updated_at moves forward", func(t *testing.T) {
		svc, _ := newTestService()
		created := create(t, svc)

		time.Sleep(2 * time.Millisecond)
		resp, err := svc.Update(context.Background(), UpdateTaskRequest{
			UserID:      "user-1",
			TaskID:      created.ID,
			IsCompleted: optional.Of(true),
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if !resp.UpdatedAt.After(created.UpdatedAt) {
			t.Errorf("expected updated_at to advance: %v -> %v", created.UpdatedAt, resp.UpdatedAt)
		}
		if !resp.CreatedAt.Equal(created.CreatedAt) {
			t.Error("expected created_at to stay fixed")
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Update(context.Background(), UpdateTaskRequest{
			UserID: "user-1",
			TaskID: uuid.New().String(),
			Title:  optional.Of("x"),
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTaskService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, _ := newTestService()

		created, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID: "user-1",
			Title:  "to delete",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		resp, err := svc.Delete(context.Background(), DeleteTaskRequest{
			UserID: "user-1",
			TaskID: created.ID,
		})
		if err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if !resp.Deleted {
			t.Error("expected Deleted to be true")
		}

		_, err = svc.Get(context.Background(), GetTaskRequest{
			UserID: "user-1",
			TaskID: created.ID,
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Delete(context.Background(), DeleteTaskRequest{
			UserID: "user-1",
			TaskID: uuid.New().String(),
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTaskService_Toggle(t *testing.T) {
	t.Run("two toggles restore the original state", func(t *testing.T) {
		svc, _ := newTestService()

		created, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID: "user-1",
			Title:  "flip me",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		first, err := svc.Toggle(context.Background(), ToggleTaskRequest{
			UserID: "user-1",
			TaskID: created.ID,
		})
		if err != nil {
			t.Fatalf("Toggle() error = %v", err)
		}
		if !first.IsCompleted {
			t.Error("expected first toggle to complete the task")
		}

		second, err := svc.Toggle(context.Background(), ToggleTaskRequest{
			UserID: "user-1",
			TaskID: created.ID,
		})
		if err != nil {
			t.Fatalf("Toggle() error = %v", err)
		}
		if second.IsCompleted {
			t.Error("expected second toggle to restore the original state")
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Toggle(context.Background(), ToggleTaskRequest{
			UserID: "user-1",
			TaskID: uuid.New().String(),
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTaskService_ErrorPropagation(t *testing.T) {
	t.Run("create propagates session error", func(t *testing.T) {
		repo := newMockRepository()
		sessionErr := errors.New("db connection failed")
		svc := NewTaskService(&mockStore{repo: repo, runErr: sessionErr})

		_, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID: "user-1",
			Title:  "x",
		})
		if !errors.Is(err, sessionErr) {
			t.Errorf("expected session error, got %v", err)
		}
	})

	t.Run("list propagates count error", func(t *testing.T) {
		repo := newMockRepository()
		repo.countErr = errors.New("count query failed")
		svc := NewTaskService(&mockStore{repo: repo})

		_, err := svc.List(context.Background(), ListTasksRequest{UserID: "user-1"})
		if err == nil || err.Error() != "count query failed" {
			t.Errorf("expected count error, got %v", err)
		}
	})

	t.Run("update propagates save error", func(t *testing.T) {
		repo := newMockRepository()
		svc := NewTaskService(&mockStore{repo: repo})

		created, err := svc.Create(context.Background(), CreateTaskRequest{
			UserID: "user-1",
			Title:  "x",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		repo.saveErr = errors.New("save failed")
		_, err = svc.Update(context.Background(), UpdateTaskRequest{
			UserID:      "user-1",
			TaskID:      created.ID,
			IsCompleted: optional.Of(true),
		})
		if err == nil || err.Error() != "save failed" {
			t.Errorf("expected save error, got %v", err)
		}
	})
}
