// Package config handles loading the taskflow config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied when the config file is absent or partial.
const (
	DefaultBaseURL        = "http://localhost:8000/api"
	DefaultRequestTimeout = 30 * time.Second
	DefaultCacheStaleness = 30 * time.Second
)

// Config represents the config.toml configuration file.
type Config struct {
	Server Server `toml:"server"`
	Cache  Cache  `toml:"cache"`
}

// Server contains connection settings for the TaskFlow API.
type Server struct {
	// URL is the API base, including the /api prefix.
	URL string `toml:"url"`

	// TimeoutSeconds bounds each request; requests past it fail as
	// network errors.
	TimeoutSeconds int `toml:"timeout-seconds"`
}

// Cache contains client-side cache settings.
type Cache struct {
	// StalenessSeconds is how long a fetched result is served without
	// revalidation.
	StalenessSeconds int `toml:"staleness-seconds"`
}

// Load reads the config file from the XDG config dir, falling back to
// defaults for anything unset. TASKFLOW_URL overrides the server URL.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err == nil {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	if url := os.Getenv("TASKFLOW_URL"); url != "" {
		cfg.Server.URL = url
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.URL == "" {
		c.Server.URL = DefaultBaseURL
	}
	if c.Server.TimeoutSeconds <= 0 {
		c.Server.TimeoutSeconds = int(DefaultRequestTimeout / time.Second)
	}
	if c.Cache.StalenessSeconds <= 0 {
		c.Cache.StalenessSeconds = int(DefaultCacheStaleness / time.Second)
	}
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// CacheStaleness returns the cache freshness window as a duration.
func (c *Config) CacheStaleness() time.Duration {
	return time.Duration(c.Cache.StalenessSeconds) * time.Second
}

func configPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "taskflow", "config.toml"), nil
}
