// Package config holds the immutable runtime configuration: authentication
// options, scrape options and credentials. Options load from a YAML file;
// credentials come from the environment and are never written to disk.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AuthConfig controls the login flow. Immutable once loaded.
type AuthConfig struct {
	// Headless runs the browser without a visible window
	Headless bool `yaml:"headless"`

	// Timeout bounds each blocking browser operation
	Timeout time.Duration `yaml:"timeout"`

	// MaxModalRetries bounds full flow restarts after an active-session
	// modal interrupt
	MaxModalRetries int `yaml:"max_modal_retries"`

	// PersistSession saves the authenticated session for fast re-login
	PersistSession bool `yaml:"persist_session"`
}

// ScrapeConfig controls the extraction engine.
type ScrapeConfig struct {
	// ScoreThreshold is the minimum table candidate score
	ScoreThreshold int `yaml:"score_threshold"`

	// MaxPages bounds pagination to guarantee termination
	MaxPages int `yaml:"max_pages"`

	// FallbackCap bounds low-confidence records from the fallback scan
	FallbackCap int `yaml:"fallback_cap"`
}

// Config is the full runtime configuration.
type Config struct {
	Auth   AuthConfig   `yaml:"auth"`
	Scrape ScrapeConfig `yaml:"scrape"`

	// SessionDir overrides the session store location
	SessionDir string `yaml:"session_dir"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Auth: AuthConfig{
			Headless:        true,
			Timeout:         30 * time.Second,
			MaxModalRetries: 2,
			PersistSession:  true,
		},
		Scrape: ScrapeConfig{
			ScoreThreshold: 3,
			MaxPages:       10,
			FallbackCap:    50,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Auth.MaxModalRetries < 0 {
		return cfg, fmt.Errorf("max_modal_retries must not be negative")
	}
	if cfg.Auth.Timeout <= 0 {
		cfg.Auth.Timeout = Default().Auth.Timeout
	}
	if cfg.Scrape.MaxPages <= 0 {
		cfg.Scrape.MaxPages = Default().Scrape.MaxPages
	}
	return cfg, nil
}
