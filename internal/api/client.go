// Package api provides the HTTP gateway and typed resource clients for the
// TaskFlow REST API. All outbound traffic goes through one Gateway, which
// owns bearer-token handling and the 401 refresh-and-replay flow.
package api

import (
	"time"

	"github.com/bmeyers/taskflow/internal/auth"
)

// Client bundles the per-resource clients over a shared gateway.
type Client struct {
	Auth          *AuthClient
	Tasks         *TasksClient
	Projects      *ProjectsClient
	Sprints       *SprintsClient
	Teams         *TeamsClient
	Notifications *NotificationsClient

	gw *Gateway
}

// New builds a client rooted at baseURL (including the /api prefix).
func New(baseURL string, creds *auth.Store, timeout time.Duration) *Client {
	gw := NewGateway(baseURL, creds, timeout)
	return &Client{
		Auth:          &AuthClient{gw: gw},
		Tasks:         &TasksClient{gw: gw},
		Projects:      &ProjectsClient{gw: gw},
		Sprints:       &SprintsClient{gw: gw},
		Teams:         &TeamsClient{gw: gw},
		Notifications: &NotificationsClient{gw: gw},
		gw:            gw,
	}
}
