package app

import (
	"context"
	"strings"

	"taskboard/internal/domain"
)

// TaskService encapsulates the task use cases against the upstream API.
type TaskService struct {
	api domain.TaskAPI
}

// NewTaskService creates a TaskService backed by the given API.
func NewTaskService(api domain.TaskAPI) *TaskService {
	return &TaskService{api: api}
}

func validTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", &domain.ValidationError{Field: "title", Message: "Title is required."}
	}
	return t, nil
}

// List returns the current (completed=false) or completed tasks.
func (s *TaskService) List(ctx context.Context, token string, completed bool) ([]domain.Task, error) {
	return s.api.ListTasks(ctx, token, completed)
}

// Create validates the title and creates a task. A blank title sends nothing.
func (s *TaskService) Create(ctx context.Context, token, title string) (*domain.Task, error) {
	t, err := validTitle(title)
	if err != nil {
		return nil, err
	}
	return s.api.CreateTask(ctx, token, t)
}

// SetCompleted changes only the completed flag of a task.
func (s *TaskService) SetCompleted(ctx context.Context, token string, id int64, completed bool) error {
	return s.api.UpdateTask(ctx, token, id, domain.TaskPatch{Completed: &completed})
}

// Rename changes only the title of a task.
func (s *TaskService) Rename(ctx context.Context, token string, id int64, title string) error {
	t, err := validTitle(title)
	if err != nil {
		return err
	}
	return s.api.UpdateTask(ctx, token, id, domain.TaskPatch{Title: &t})
}

// Remove deletes a task. Deleting the same ID twice fails the second time.
func (s *TaskService) Remove(ctx context.Context, token string, id int64) error {
	return s.api.DeleteTask(ctx, token, id)
}
