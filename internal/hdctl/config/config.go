// Package config loads hdctl's operator configuration. hdctl talks to
// the database directly, so the only hard requirement is a DSN.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseURL string `yaml:"database_url,omitempty"`
	RedisURL    string `yaml:"redis_url,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty"`

	// Timeout bounds each command's database work, parseable by
	// time.ParseDuration.
	Timeout string `yaml:"timeout,omitempty"`
}

const (
	DefaultTimeout = 5 * time.Minute

	// Environment variable names for configuration overrides
	EnvDatabaseURL = "HDCTL_DATABASE_URL"
	EnvRedisURL    = "HDCTL_REDIS_URL"
)

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hdctl"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file if present and applies environment
// overrides on top. A missing file is not an error; a missing DSN is.
func Load() (*Config, error) {
	cfg := &Config{LogLevel: "info"}

	path, err := Path()
	if err == nil {
		if raw, readErr := os.ReadFile(path); readErr == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.DatabaseURL = v
	} else if v := os.Getenv("DATABASE_URL"); v != "" && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.RedisURL = v
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("no database configured: set database_url in the config file or %s", EnvDatabaseURL)
	}

	return cfg, nil
}

func (c *Config) CommandTimeout() time.Duration {
	if c.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// Save writes the config back, creating the directory with operator-only
// permissions since the DSN carries credentials.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}
