package api

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is reported when the session cannot be recovered by a
// token refresh. Callers match it with errors.Is.
var ErrSessionExpired = errors.New("session expired")

// ValidationError is a 4xx rejection of the request payload (other than
// 401/409). Fields carries server-provided per-field messages when present.
type ValidationError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%d): %s", e.Status, e.Message)
}

// ConflictError is a 409 rejection. The board layer treats it (like any
// mutation failure) as a trigger for reverting an optimistic move.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Message
}

// AuthExpiredError means a refresh failed or no refresh token was
// available; credentials have been cleared by the time callers see it.
type AuthExpiredError struct {
	Reason string
}

func (e *AuthExpiredError) Error() string {
	if e.Reason == "" {
		return "session expired"
	}
	return "session expired: " + e.Reason
}

func (e *AuthExpiredError) Unwrap() error { return ErrSessionExpired }

// NetworkError wraps a transport failure or timeout.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a 5xx response.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}
