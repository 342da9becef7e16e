package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmeyers/taskflow/internal/models"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()

	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCredentialsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskflow.db")

	store := openStore(t, path)
	user := &models.UserSummary{ID: 3, Username: "ann", Email: "ann@example.com"}
	require.NoError(t, store.SetCredential(user, "access-1", "refresh-1"))
	require.NoError(t, store.Close())

	reopened := openStore(t, path)
	assert.Equal(t, "access-1", reopened.AccessToken())
	assert.Equal(t, "refresh-1", reopened.RefreshToken())
	require.NotNil(t, reopened.User())
	assert.Equal(t, "ann", reopened.User().Username)
	assert.True(t, reopened.Authenticated())
}

func TestSetAccessTokenLeavesRefreshAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskflow.db")

	store := openStore(t, path)
	require.NoError(t, store.SetCredential(&models.UserSummary{ID: 1}, "old-access", "refresh-1"))
	require.NoError(t, store.SetAccessToken("new-access"))

	assert.Equal(t, "new-access", store.AccessToken())
	assert.Equal(t, "refresh-1", store.RefreshToken())

	require.NoError(t, store.Close())
	reopened := openStore(t, path)
	assert.Equal(t, "new-access", reopened.AccessToken())
}

func TestClearCredentialIsIdempotent(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "taskflow.db"))
	require.NoError(t, store.SetCredential(&models.UserSummary{ID: 1}, "a", "r"))

	require.NoError(t, store.ClearCredential())
	require.NoError(t, store.ClearCredential())

	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
	assert.Nil(t, store.User())
	assert.False(t, store.Authenticated())
}

func TestFreshStoreIsUnauthenticated(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "taskflow.db"))

	assert.Empty(t, store.AccessToken())
	assert.False(t, store.Authenticated())
	assert.Nil(t, store.User())
}

func TestSettingsRoundtrip(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "taskflow.db"))

	got, err := store.GetSetting("last_project_id")
	require.NoError(t, err)
	assert.Empty(t, got, "missing key reads as empty")

	require.NoError(t, store.SetSetting("last_project_id", "42"))
	require.NoError(t, store.SetSetting("last_project_id", "43"))

	got, err = store.GetSetting("last_project_id")
	require.NoError(t, err)
	assert.Equal(t, "43", got)
}
