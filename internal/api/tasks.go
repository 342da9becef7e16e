package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bmeyers/taskflow/internal/models"
)

// TasksClient is the typed client for /tasks/.
type TasksClient struct {
	gw *Gateway
}

// TaskInput is the writable subset of a task for create/update calls.
// Nil fields are omitted so partial updates only touch what they name.
type TaskInput struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Project     *int64           `json:"project,omitempty"`
	Sprint      *int64           `json:"sprint,omitempty"`
	Status      *string          `json:"status,omitempty"`
	Priority    *models.Priority `json:"priority,omitempty"`
	DueDate     *string          `json:"due_date,omitempty"`
	LabelIDs    []int64          `json:"label_ids,omitempty"`
}

// List returns a page of tasks matching the filters.
func (c *TasksClient) List(ctx context.Context, f TaskFilters) (*models.Page[models.Task], error) {
	var page models.Page[models.Task]
	if err := c.gw.Do(ctx, http.MethodGet, "/tasks/", f.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a single task by ID.
func (c *TasksClient) Get(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	if err := c.gw.Do(ctx, http.MethodGet, taskPath(id), nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create creates a new task.
func (c *TasksClient) Create(ctx context.Context, input TaskInput) (*models.Task, error) {
	var task models.Task
	if err := c.gw.Do(ctx, http.MethodPost, "/tasks/", nil, input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies a partial update to a task.
func (c *TasksClient) Update(ctx context.Context, id int64, input TaskInput) (*models.Task, error) {
	var task models.Task
	if err := c.gw.Do(ctx, http.MethodPatch, taskPath(id), nil, input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task.
func (c *TasksClient) Delete(ctx context.Context, id int64) error {
	return c.gw.Do(ctx, http.MethodDelete, taskPath(id), nil, nil, nil)
}

// ChangeStatus moves a task to a new workflow status.
func (c *TasksClient) ChangeStatus(ctx context.Context, id int64, status models.StatusType) (*models.Task, error) {
	body := map[string]string{"status": string(status)}

	var task models.Task
	if err := c.gw.Do(ctx, http.MethodPost, taskPath(id)+"change_status/", nil, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// AssignUsers replaces the task's assignee set.
func (c *TasksClient) AssignUsers(ctx context.Context, id int64, userIDs []int64) (*models.Task, error) {
	body := map[string][]int64{"user_ids": userIDs}

	var task models.Task
	if err := c.gw.Do(ctx, http.MethodPost, taskPath(id)+"assign/", nil, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Comments lists the comments on a task.
func (c *TasksClient) Comments(ctx context.Context, id int64) ([]models.Comment, error) {
	var page models.Page[models.Comment]
	if err := c.gw.Do(ctx, http.MethodGet, taskPath(id)+"comments/", nil, nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// AddComment posts a comment to a task.
func (c *TasksClient) AddComment(ctx context.Context, id int64, content string) (*models.Comment, error) {
	body := map[string]string{"content": content}

	var comment models.Comment
	if err := c.gw.Do(ctx, http.MethodPost, taskPath(id)+"comments/", nil, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// TimeEntries lists time logged against a task.
func (c *TasksClient) TimeEntries(ctx context.Context, id int64) ([]models.TimeEntry, error) {
	var page models.Page[models.TimeEntry]
	if err := c.gw.Do(ctx, http.MethodGet, taskPath(id)+"time_entries/", nil, nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// LogTime records minutes spent on a task.
func (c *TasksClient) LogTime(ctx context.Context, id int64, minutes int, description string) (*models.TimeEntry, error) {
	body := map[string]any{"minutes": minutes, "description": description}

	var entry models.TimeEntry
	if err := c.gw.Do(ctx, http.MethodPost, taskPath(id)+"time_entries/", nil, body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func taskPath(id int64) string {
	return fmt.Sprintf("/tasks/%d/", id)
}
