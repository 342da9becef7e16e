package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bmeyers/taskflow/internal/models"
)

// ProjectsClient is the typed client for /projects/.
type ProjectsClient struct {
	gw *Gateway
}

// ProjectInput is the writable subset of a project.
type ProjectInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// List returns a page of projects matching the filters.
func (c *ProjectsClient) List(ctx context.Context, f ProjectFilters) (*models.Page[models.Project], error) {
	var page models.Page[models.Project]
	if err := c.gw.Do(ctx, http.MethodGet, "/projects/", f.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a single project by ID.
func (c *ProjectsClient) Get(ctx context.Context, id int64) (*models.Project, error) {
	var project models.Project
	if err := c.gw.Do(ctx, http.MethodGet, projectPath(id), nil, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Create creates a new project.
func (c *ProjectsClient) Create(ctx context.Context, input ProjectInput) (*models.Project, error) {
	var project models.Project
	if err := c.gw.Do(ctx, http.MethodPost, "/projects/", nil, input, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Update applies a partial update to a project.
func (c *ProjectsClient) Update(ctx context.Context, id int64, input ProjectInput) (*models.Project, error) {
	var project models.Project
	if err := c.gw.Do(ctx, http.MethodPatch, projectPath(id), nil, input, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes a project.
func (c *ProjectsClient) Delete(ctx context.Context, id int64) error {
	return c.gw.Do(ctx, http.MethodDelete, projectPath(id), nil, nil, nil)
}

// AddMember adds a user to the project.
func (c *ProjectsClient) AddMember(ctx context.Context, id, userID int64) (*models.Project, error) {
	body := map[string]int64{"user_id": userID}

	var project models.Project
	if err := c.gw.Do(ctx, http.MethodPost, projectPath(id)+"members/", nil, body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Labels lists the labels defined in a project.
func (c *ProjectsClient) Labels(ctx context.Context, id int64) ([]models.Label, error) {
	var page models.Page[models.Label]
	if err := c.gw.Do(ctx, http.MethodGet, projectPath(id)+"labels/", nil, nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// CreateLabel adds a label to a project.
func (c *ProjectsClient) CreateLabel(ctx context.Context, id int64, name, color string) (*models.Label, error) {
	body := map[string]string{"name": name, "color": color}

	var label models.Label
	if err := c.gw.Do(ctx, http.MethodPost, projectPath(id)+"labels/", nil, body, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// Archive marks a project archived.
func (c *ProjectsClient) Archive(ctx context.Context, id int64) (*models.Project, error) {
	var project models.Project
	if err := c.gw.Do(ctx, http.MethodPost, projectPath(id)+"archive/", nil, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func projectPath(id int64) string {
	return fmt.Sprintf("/projects/%d/", id)
}
