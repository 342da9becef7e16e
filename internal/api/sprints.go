package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bmeyers/taskflow/internal/models"
)

// SprintsClient is the typed client for /sprints/.
type SprintsClient struct {
	gw *Gateway
}

// SprintInput is the writable subset of a sprint.
type SprintInput struct {
	Name      *string `json:"name,omitempty"`
	Goal      *string `json:"goal,omitempty"`
	Project   *int64  `json:"project,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

// List returns a page of sprints matching the filters.
func (c *SprintsClient) List(ctx context.Context, f ListFilters) (*models.Page[models.Sprint], error) {
	var page models.Page[models.Sprint]
	if err := c.gw.Do(ctx, http.MethodGet, "/sprints/", f.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a single sprint by ID.
func (c *SprintsClient) Get(ctx context.Context, id int64) (*models.Sprint, error) {
	var sprint models.Sprint
	if err := c.gw.Do(ctx, http.MethodGet, sprintPath(id), nil, nil, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// Create creates a new sprint.
func (c *SprintsClient) Create(ctx context.Context, input SprintInput) (*models.Sprint, error) {
	var sprint models.Sprint
	if err := c.gw.Do(ctx, http.MethodPost, "/sprints/", nil, input, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// Start activates a planned sprint.
func (c *SprintsClient) Start(ctx context.Context, id int64) (*models.Sprint, error) {
	var sprint models.Sprint
	if err := c.gw.Do(ctx, http.MethodPost, sprintPath(id)+"start/", nil, nil, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// Complete closes an active sprint.
func (c *SprintsClient) Complete(ctx context.Context, id int64) (*models.Sprint, error) {
	var sprint models.Sprint
	if err := c.gw.Do(ctx, http.MethodPost, sprintPath(id)+"complete/", nil, nil, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

func sprintPath(id int64) string {
	return fmt.Sprintf("/sprints/%d/", id)
}
