package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setConfigDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("TASKFLOW_URL", "")
	return dir
}

func writeConfig(t *testing.T, dir, contents string) {
	t.Helper()

	path := filepath.Join(dir, "taskflow", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	setConfigDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.Server.URL)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout())
	assert.Equal(t, DefaultCacheStaleness, cfg.CacheStaleness())
}

func TestLoadParsesFile(t *testing.T) {
	dir := setConfigDir(t)
	writeConfig(t, dir, `
[server]
url = "https://tasks.example.com/api"
timeout-seconds = 10

[cache]
staleness-seconds = 120
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://tasks.example.com/api", cfg.Server.URL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 2*time.Minute, cfg.CacheStaleness())
}

func TestLoadFillsPartialFile(t *testing.T) {
	dir := setConfigDir(t)
	writeConfig(t, dir, `
[server]
url = "https://tasks.example.com/api"
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://tasks.example.com/api", cfg.Server.URL)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout())
	assert.Equal(t, DefaultCacheStaleness, cfg.CacheStaleness())
}

func TestEnvOverridesServerURL(t *testing.T) {
	dir := setConfigDir(t)
	writeConfig(t, dir, `
[server]
url = "https://from-file.example.com/api"
`)
	t.Setenv("TASKFLOW_URL", "https://from-env.example.com/api")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://from-env.example.com/api", cfg.Server.URL)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := setConfigDir(t)
	writeConfig(t, dir, `[server`)

	_, err := Load()
	assert.Error(t, err)
}
