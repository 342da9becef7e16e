package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/bmeyers/taskflow/internal/auth"
)

const refreshPath = "/auth/token/refresh/"

// How close to expiry an access token may get before the gateway refreshes
// it ahead of a request instead of waiting for the 401.
const expirySlack = 30 * time.Second

// Gateway is the single outbound pipeline every API call goes through. It
// attaches the bearer token, retries exactly once after a 401 by refreshing
// the token, and maps failures onto the client error types.
type Gateway struct {
	baseURL string
	http    *http.Client
	creds   *auth.Store

	// refreshGroup collapses concurrent refresh attempts into one call;
	// every request hitting a 401 at the same time awaits the same outcome.
	refreshGroup singleflight.Group
}

// NewGateway creates a gateway for the given API base URL (including the
// /api prefix).
func NewGateway(baseURL string, creds *auth.Store, timeout time.Duration) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
	}
}

// Do executes method against path (relative to the base URL), encoding body
// as JSON when non-nil and decoding the response into out when non-nil.
func (g *Gateway) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token := g.creds.AccessToken()

	// Refresh ahead of time when the token is about to lapse; a failure
	// here is ignored because the 401 path below still covers it.
	if token != "" && g.creds.RefreshToken() != "" && tokenExpiresWithin(token, expirySlack) {
		if err := g.refresh(ctx); err == nil {
			token = g.creds.AccessToken()
		}
	}

	status, data, err := g.send(ctx, method, path, query, body, token)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if status == http.StatusUnauthorized && path != refreshPath {
		if err := g.refresh(ctx); err != nil {
			return err
		}

		// Single replay with the fresh token. A second 401 fails the
		// request outright rather than looping.
		status, data, err = g.send(ctx, method, path, query, body, g.creds.AccessToken())
		if err != nil {
			return &NetworkError{Err: err}
		}
		if status == http.StatusUnauthorized {
			return &AuthExpiredError{Reason: "still unauthorized after refresh"}
		}
	}

	if status >= 400 {
		return errorFromResponse(status, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// refresh exchanges the refresh token for a new access token. Concurrent
// callers share one attempt; on failure credentials are cleared and every
// waiter gets the session-expired error.
func (g *Gateway) refresh(ctx context.Context) error {
	_, err, _ := g.refreshGroup.Do("refresh", func() (any, error) {
		refreshToken := g.creds.RefreshToken()
		if refreshToken == "" {
			g.creds.ClearCredential()
			return nil, &AuthExpiredError{Reason: "no refresh token"}
		}

		// Bypasses Do so a 401 here can never trigger another refresh.
		status, data, err := g.send(ctx, http.MethodPost, refreshPath, nil,
			map[string]string{"refresh": refreshToken}, "")
		if err != nil {
			return nil, &NetworkError{Err: err}
		}
		if status >= 400 {
			g.creds.ClearCredential()
			return nil, &AuthExpiredError{Reason: fmt.Sprintf("refresh rejected (%d)", status)}
		}

		var resp struct {
			Access string `json:"access"`
		}
		if err := json.Unmarshal(data, &resp); err != nil || resp.Access == "" {
			g.creds.ClearCredential()
			return nil, &AuthExpiredError{Reason: "bad refresh response"}
		}

		if err := g.creds.SetAccessToken(resp.Access); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (g *Gateway) send(ctx context.Context, method, path string, query url.Values, body any, token string) (int, []byte, error) {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

// tokenExpiresWithin reports whether the JWT's exp claim falls inside the
// next d. Unparseable tokens report false; the server stays authoritative.
func tokenExpiresWithin(token string, d time.Duration) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < d
}

// errorFromResponse maps a non-2xx response onto the error taxonomy.
func errorFromResponse(status int, data []byte) error {
	message, fields := parseErrorBody(data)
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusConflict:
		return &ConflictError{Message: message}
	case status >= 400 && status < 500:
		return &ValidationError{Status: status, Message: message, Fields: fields}
	default:
		return &ServerError{Status: status, Message: message}
	}
}

// parseErrorBody extracts a message and any field-level errors from a
// server error payload. The server sends either {"detail": "..."} or a map
// of field name to message list.
func parseErrorBody(data []byte) (string, map[string][]string) {
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &detail); err == nil && detail.Detail != "" {
		return detail.Detail, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) == 0 {
		return "", nil
	}

	fields := make(map[string][]string, len(raw))
	message := ""
	for name, val := range raw {
		var list []string
		if json.Unmarshal(val, &list) != nil {
			var single string
			if json.Unmarshal(val, &single) != nil {
				continue
			}
			list = []string{single}
		}
		fields[name] = list
		if message == "" && len(list) > 0 {
			message = name + ": " + list[0]
		}
	}
	return message, fields
}
