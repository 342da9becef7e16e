package api

import (
	"context"
	"net/http"

	"github.com/bmeyers/taskflow/internal/models"
)

// NotificationsClient is the typed client for /notifications/.
type NotificationsClient struct {
	gw *Gateway
}

// List returns a page of the current user's notifications.
func (c *NotificationsClient) List(ctx context.Context, f ListFilters) (*models.Page[models.Notification], error) {
	var page models.Page[models.Notification]
	if err := c.gw.Do(ctx, http.MethodGet, "/notifications/", f.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UnreadCount returns the number of unread notifications.
func (c *NotificationsClient) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.gw.Do(ctx, http.MethodGet, "/notifications/unread_count/", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkAllRead marks every notification read.
func (c *NotificationsClient) MarkAllRead(ctx context.Context) error {
	return c.gw.Do(ctx, http.MethodPost, "/notifications/mark_all_read/", nil, nil, nil)
}
