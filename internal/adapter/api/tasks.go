package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"taskboard/internal/domain"
)

func taskPath(id int64) string {
	return fmt.Sprintf("/api/tasks/%d/", id)
}

// ListTasks returns the tasks whose completed flag matches completed.
func (c *Client) ListTasks(ctx context.Context, token string, completed bool) ([]domain.Task, error) {
	q := url.Values{"completed": {strconv.FormatBool(completed)}}
	req, err := newJSONRequest(ctx, http.MethodGet, c.endpoint("/api/tasks/", q), nil)
	if err != nil {
		return nil, err
	}
	var tasks []domain.Task
	if err := c.do(c.bearer(token), req, "list tasks", &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// CreateTask creates a task; the server assigns ID and timestamps.
func (c *Client) CreateTask(ctx context.Context, token, title string) (*domain.Task, error) {
	body := map[string]string{"title": title}
	req, err := newJSONRequest(ctx, http.MethodPost, c.endpoint("/api/tasks/", nil), body)
	if err != nil {
		return nil, err
	}
	var t domain.Task
	if err := c.do(c.bearer(token), req, "create task", &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask sends a PATCH carrying only the fields set in patch.
func (c *Client) UpdateTask(ctx context.Context, token string, id int64, patch domain.TaskPatch) error {
	req, err := newJSONRequest(ctx, http.MethodPatch, c.endpoint(taskPath(id), nil), patch)
	if err != nil {
		return err
	}
	return c.do(c.bearer(token), req, "update task", nil)
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, token string, id int64) error {
	req, err := newJSONRequest(ctx, http.MethodDelete, c.endpoint(taskPath(id), nil), nil)
	if err != nil {
		return err
	}
	return c.do(c.bearer(token), req, "delete task", nil)
}
