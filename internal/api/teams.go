package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bmeyers/taskflow/internal/models"
)

// TeamsClient is the typed client for /teams/.
type TeamsClient struct {
	gw *Gateway
}

// List returns a page of teams matching the filters.
func (c *TeamsClient) List(ctx context.Context, f ListFilters) (*models.Page[models.Team], error) {
	var page models.Page[models.Team]
	if err := c.gw.Do(ctx, http.MethodGet, "/teams/", f.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a single team by ID.
func (c *TeamsClient) Get(ctx context.Context, id int64) (*models.Team, error) {
	var team models.Team
	if err := c.gw.Do(ctx, http.MethodGet, teamPath(id), nil, nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// AddMember adds a user to the team.
func (c *TeamsClient) AddMember(ctx context.Context, id, userID int64) (*models.Team, error) {
	body := map[string]int64{"user_id": userID}

	var team models.Team
	if err := c.gw.Do(ctx, http.MethodPost, teamPath(id)+"members/", nil, body, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func teamPath(id int64) string {
	return fmt.Sprintf("/teams/%d/", id)
}
