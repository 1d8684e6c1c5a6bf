// Package config loads sosumi's on-disk configuration: facade overrides
// (bundle path, key, default limit, recency window) and the logging section
// consumed by internal/logging.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds sosumi's full on-disk configuration, read from
// $HOME/.sosumi/config.json.
type Config struct {
	// BundlePath overrides the bundle resolver's default search path.
	BundlePath string `json:"bundle_path,omitempty"`

	// EncryptionKey overrides SOSUMI_ENCRYPTION_KEY (hex or base64, 32 bytes
	// once decoded). Storing a key in a config file on disk is discouraged;
	// this field exists for parity with the environment-variable path and is
	// never logged.
	EncryptionKey string `json:"encryption_key,omitempty"`

	// DefaultLimit is the result count used when a caller does not specify one.
	DefaultLimit int `json:"default_limit"`

	// RecencyWindowYears controls how many years back from "now" still count
	// as "recent" when the renderer groups results. Minimum 1.
	RecencyWindowYears int `json:"recency_window_years"`

	// Logging is read directly by internal/logging; duplicated here only so
	// the whole file round-trips through one struct.
	Logging json.RawMessage `json:"logging,omitempty"`
}

// DefaultConfig returns sosumi's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:       10,
		RecencyWindowYears: 1,
	}
}

// Load reads configuration from path, falling back to defaults if the file
// does not exist. Environment variables always take precedence over the
// file (applyEnvOverrides). Logging is left as raw JSON so the logging
// package owns its own shape.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration back to path as JSON.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("SOSUMI_ENCRYPTION_KEY"); key != "" {
		c.EncryptionKey = key
	}
	if path := os.Getenv("SOSUMI_BUNDLE_PATH"); path != "" {
		c.BundlePath = path
	}
}

// Validate reports configuration values that would make the facade unusable.
func (c *Config) Validate() error {
	if c.DefaultLimit < 1 || c.DefaultLimit > 1000 {
		return fmt.Errorf("default_limit must be in [1, 1000], got %d", c.DefaultLimit)
	}
	if c.RecencyWindowYears < 1 {
		return fmt.Errorf("recency_window_years must be >= 1, got %d", c.RecencyWindowYears)
	}
	return nil
}

// DefaultConfigPath returns $HOME/.sosumi/config.json.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".sosumi", "config.json")
	}
	return filepath.Join(home, ".sosumi", "config.json")
}
