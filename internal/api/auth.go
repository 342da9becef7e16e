package api

import (
	"context"
	"net/http"

	"github.com/bmeyers/taskflow/internal/models"
)

// AuthClient handles the unauthenticated auth endpoints and stores the
// resulting credentials.
type AuthClient struct {
	gw *Gateway
}

type credentialResponse struct {
	Access  string             `json:"access"`
	Refresh string             `json:"refresh"`
	User    models.UserSummary `json:"user"`
}

// Login exchanges username/password for a token pair and persists it.
func (c *AuthClient) Login(ctx context.Context, username, password string) (*models.UserSummary, error) {
	body := map[string]string{"username": username, "password": password}

	var resp credentialResponse
	if err := c.gw.Do(ctx, http.MethodPost, "/auth/login/", nil, body, &resp); err != nil {
		return nil, err
	}
	if err := c.gw.creds.SetCredential(&resp.User, resp.Access, resp.Refresh); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates an account and persists the returned token pair.
func (c *AuthClient) Register(ctx context.Context, username, email, password string) (*models.UserSummary, error) {
	body := map[string]string{"username": username, "email": email, "password": password}

	var resp credentialResponse
	if err := c.gw.Do(ctx, http.MethodPost, "/auth/register/", nil, body, &resp); err != nil {
		return nil, err
	}
	if err := c.gw.creds.SetCredential(&resp.User, resp.Access, resp.Refresh); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout clears the stored credentials. Purely client-side.
func (c *AuthClient) Logout() error {
	return c.gw.creds.ClearCredential()
}
