package domain

import (
	"context"
	"time"
)

// Task is a single to-do item owned by the signed-in user.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// TaskPatch is a partial update; nil fields are left untouched upstream.
type TaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// TaskAPI is the port for the upstream task endpoints.
type TaskAPI interface {
	ListTasks(ctx context.Context, token string, completed bool) ([]Task, error)
	CreateTask(ctx context.Context, token, title string) (*Task, error)
	UpdateTask(ctx context.Context, token string, id int64, patch TaskPatch) error
	DeleteTask(ctx context.Context, token string, id int64) error
}
