// Package service wires the resource clients to the query cache: reads go
// through cached, coalesced queries; writes invalidate exactly the key
// prefixes they affect.
package service

import (
	"context"
	"strconv"

	"github.com/bmeyers/taskflow/internal/api"
	"github.com/bmeyers/taskflow/internal/cache"
	"github.com/bmeyers/taskflow/internal/models"
)

// Services exposes the cached read/write surface the UI consumes.
type Services struct {
	API   *api.Client
	Cache *cache.Cache
}

// New bundles the client and cache.
func New(client *api.Client, c *cache.Cache) *Services {
	return &Services{API: client, Cache: c}
}

// Key prefixes per resource; invalidation targets these.
func taskListKey(f api.TaskFilters) cache.Key {
	return cache.NewKey("tasks", "list", f.Values().Encode())
}

func taskKey(id int64) cache.Key {
	return cache.NewKey("tasks", "get", strconv.FormatInt(id, 10))
}

func taskCommentsKey(id int64) cache.Key {
	return cache.NewKey("tasks", "comments", strconv.FormatInt(id, 10))
}

func taskTimeKey(id int64) cache.Key {
	return cache.NewKey("tasks", "time", strconv.FormatInt(id, 10))
}

func projectListKey(f api.ProjectFilters) cache.Key {
	return cache.NewKey("projects", "list", f.Values().Encode())
}

func projectKey(id int64) cache.Key {
	return cache.NewKey("projects", "get", strconv.FormatInt(id, 10))
}

func notificationsKey() cache.Key {
	return cache.NewKey("notifications", "list")
}

// Tasks returns a cached page of tasks.
func (s *Services) Tasks(ctx context.Context, f api.TaskFilters) (*models.Page[models.Task], error) {
	return cache.QueryAs(ctx, s.Cache, taskListKey(f), func(ctx context.Context) (*models.Page[models.Task], error) {
		return s.API.Tasks.List(ctx, f)
	})
}

// Task returns a cached single task.
func (s *Services) Task(ctx context.Context, id int64) (*models.Task, error) {
	return cache.QueryAs(ctx, s.Cache, taskKey(id), func(ctx context.Context) (*models.Task, error) {
		return s.API.Tasks.Get(ctx, id)
	})
}

// TaskComments returns cached comments for a task.
func (s *Services) TaskComments(ctx context.Context, id int64) ([]models.Comment, error) {
	return cache.QueryAs(ctx, s.Cache, taskCommentsKey(id), func(ctx context.Context) ([]models.Comment, error) {
		return s.API.Tasks.Comments(ctx, id)
	})
}

// TaskTimeEntries returns cached time entries for a task.
func (s *Services) TaskTimeEntries(ctx context.Context, id int64) ([]models.TimeEntry, error) {
	return cache.QueryAs(ctx, s.Cache, taskTimeKey(id), func(ctx context.Context) ([]models.TimeEntry, error) {
		return s.API.Tasks.TimeEntries(ctx, id)
	})
}

// Projects returns a cached page of projects.
func (s *Services) Projects(ctx context.Context, f api.ProjectFilters) (*models.Page[models.Project], error) {
	return cache.QueryAs(ctx, s.Cache, projectListKey(f), func(ctx context.Context) (*models.Page[models.Project], error) {
		return s.API.Projects.List(ctx, f)
	})
}

// Notifications returns the cached notification page.
func (s *Services) Notifications(ctx context.Context) (*models.Page[models.Notification], error) {
	return cache.QueryAs(ctx, s.Cache, notificationsKey(), func(ctx context.Context) (*models.Page[models.Notification], error) {
		return s.API.Notifications.List(ctx, api.ListFilters{})
	})
}

// ChangeTaskStatus issues the change-status mutation for an optimistic
// board move. On success the task list and the task detail entries go
// stale; on failure the cache is untouched and the board reverts.
func (s *Services) ChangeTaskStatus(ctx context.Context, id int64, status models.StatusType) error {
	return s.Cache.Mutate(ctx, func(ctx context.Context) error {
		_, err := s.API.Tasks.ChangeStatus(ctx, id, status)
		return err
	}, cache.NewKey("tasks", "list"), taskKey(id))
}

// CreateTask creates a task and invalidates the task lists.
func (s *Services) CreateTask(ctx context.Context, input api.TaskInput) (*models.Task, error) {
	var created *models.Task
	err := s.Cache.Mutate(ctx, func(ctx context.Context) error {
		task, err := s.API.Tasks.Create(ctx, input)
		created = task
		return err
	}, cache.NewKey("tasks", "list"))
	return created, err
}

// UpdateTask applies a partial update and invalidates list and detail.
func (s *Services) UpdateTask(ctx context.Context, id int64, input api.TaskInput) (*models.Task, error) {
	var updated *models.Task
	err := s.Cache.Mutate(ctx, func(ctx context.Context) error {
		task, err := s.API.Tasks.Update(ctx, id, input)
		updated = task
		return err
	}, cache.NewKey("tasks", "list"), taskKey(id))
	return updated, err
}

// DeleteTask removes a task and invalidates every entry under tasks/.
func (s *Services) DeleteTask(ctx context.Context, id int64) error {
	return s.Cache.Mutate(ctx, func(ctx context.Context) error {
		return s.API.Tasks.Delete(ctx, id)
	}, cache.NewKey("tasks"))
}

// AssignTaskUsers replaces a task's assignees.
func (s *Services) AssignTaskUsers(ctx context.Context, id int64, userIDs []int64) error {
	return s.Cache.Mutate(ctx, func(ctx context.Context) error {
		_, err := s.API.Tasks.AssignUsers(ctx, id, userIDs)
		return err
	}, cache.NewKey("tasks", "list"), taskKey(id))
}

// AddTaskComment posts a comment and invalidates the comment thread plus
// the task detail (comments_count changes).
func (s *Services) AddTaskComment(ctx context.Context, id int64, content string) error {
	return s.Cache.Mutate(ctx, func(ctx context.Context) error {
		_, err := s.API.Tasks.AddComment(ctx, id, content)
		return err
	}, taskCommentsKey(id), taskKey(id))
}

// LogTaskTime records time against a task.
func (s *Services) LogTaskTime(ctx context.Context, id int64, minutes int, description string) error {
	return s.Cache.Mutate(ctx, func(ctx context.Context) error {
		_, err := s.API.Tasks.LogTime(ctx, id, minutes, description)
		return err
	}, taskTimeKey(id), taskKey(id))
}

// CreateProject creates a project and invalidates the project lists.
func (s *Services) CreateProject(ctx context.Context, input api.ProjectInput) (*models.Project, error) {
	var created *models.Project
	err := s.Cache.Mutate(ctx, func(ctx context.Context) error {
		project, err := s.API.Projects.Create(ctx, input)
		created = project
		return err
	}, cache.NewKey("projects", "list"))
	return created, err
}

// ArchiveProject archives a project and invalidates project entries.
func (s *Services) ArchiveProject(ctx context.Context, id int64) error {
	return s.Cache.Mutate(ctx, func(ctx context.Context) error {
		_, err := s.API.Projects.Archive(ctx, id)
		return err
	}, cache.NewKey("projects", "list"), projectKey(id))
}

// DeleteProject removes a project and everything cached beneath it.
func (s *Services) DeleteProject(ctx context.Context, id int64) error {
	return s.Cache.Mutate(ctx, func(ctx context.Context) error {
		return s.API.Projects.Delete(ctx, id)
	}, cache.NewKey("projects"), cache.NewKey("tasks"))
}

// MarkNotificationsRead marks all notifications read.
func (s *Services) MarkNotificationsRead(ctx context.Context) error {
	return s.Cache.Mutate(ctx, func(ctx context.Context) error {
		return s.API.Notifications.MarkAllRead(ctx)
	}, cache.NewKey("notifications"))
}
