// Package auth holds the credential store: the single owner of the
// access/refresh token pair and the authenticated-user snapshot, persisted
// across runs in a local SQLite database.
package auth

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bmeyers/taskflow/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Setting keys for persisted credentials.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
)

// Store is the process-wide credential store. All token reads and writes go
// through its methods; no other component touches the underlying database.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	access  string
	refresh string
	user    *models.UserSummary
}

// Open opens (creating if needed) the store database at the given path and
// loads any persisted credentials.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DefaultPath returns the store path under the XDG data directory.
func DefaultPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskflow", "taskflow.db"), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) load() error {
	s.access, _ = s.getSetting(keyAccessToken)
	s.refresh, _ = s.getSetting(keyRefreshToken)

	raw, err := s.getSetting(keyUser)
	if err == nil && raw != "" {
		var u models.UserSummary
		if json.Unmarshal([]byte(raw), &u) == nil {
			s.user = &u
		}
	}
	return nil
}

// SetCredential stores the full credential set after login or registration
// and persists it.
func (s *Store) SetCredential(user *models.UserSummary, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = access
	s.refresh = refresh
	s.user = user

	userJSON := ""
	if user != nil {
		b, err := json.Marshal(user)
		if err != nil {
			return err
		}
		userJSON = string(b)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for key, value := range map[string]string{
		keyAccessToken:  access,
		keyRefreshToken: refresh,
		keyUser:         userJSON,
	} {
		if _, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SetAccessToken replaces only the access token. Called by the gateway
// after a successful refresh; nothing else may write the access token.
func (s *Store) SetAccessToken(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = access
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, keyAccessToken, access)
	return err
}

// ClearCredential wipes tokens and the user snapshot, in memory and on
// disk, in one transaction. Idempotent.
func (s *Store) ClearCredential() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = ""
	s.refresh = ""
	s.user = nil

	_, err := s.db.Exec(`DELETE FROM settings WHERE key IN (?, ?, ?)`,
		keyAccessToken, keyRefreshToken, keyUser)
	return err
}

// AccessToken returns the current access token, or "" if unauthenticated.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

// RefreshToken returns the current refresh token, or "" if none.
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

// User returns the last-known authenticated user, or nil.
func (s *Store) User() *models.UserSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Authenticated reports whether a refresh token is present.
func (s *Store) Authenticated() bool {
	return s.RefreshToken() != ""
}

// GetSetting retrieves a client setting value by key.
func (s *Store) GetSetting(key string) (string, error) {
	return s.getSetting(key)
}

// SetSetting sets a client setting value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (s *Store) getSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
