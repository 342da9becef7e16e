package views

import (
	"errors"

	"github.com/bmeyers/taskflow/internal/api"
)

// sessionEnded reports whether an error means the session is gone and the
// login view should take over.
func sessionEnded(err error) bool {
	return errors.Is(err, api.ErrSessionExpired)
}
