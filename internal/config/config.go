// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	// Image host settings.
	APIKey      string `toml:"api_key"`
	BaseURL     string `toml:"base_url"`
	MaxUploadMB int    `toml:"max_upload_mb"`
	BatchSize   int    `toml:"batch_size"`

	// Thumbnail settings.
	DefaultThumbnail string `toml:"default_thumbnail"`
	DisplayWidth     int    `toml:"display_width"`

	Debug bool `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BaseURL:          "https://api.imgbb.com/1/upload",
		MaxUploadMB:      10,
		BatchSize:        3,
		DefaultThumbnail: "https://files.catbox.moe/mediakit-default.jpg",
		DisplayWidth:     1920,
		Debug:            false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mediakit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mediakit"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
// The API key may be empty; upload commands check for it themselves.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url cannot be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an HTTP(S) URL, got %q", c.BaseURL)
	}

	if c.MaxUploadMB < 1 || c.MaxUploadMB > 50 {
		return fmt.Errorf("max_upload_mb must be between 1 and 50, got %d", c.MaxUploadMB)
	}

	if c.BatchSize < 1 || c.BatchSize > 10 {
		return fmt.Errorf("batch_size must be between 1 and 10, got %d", c.BatchSize)
	}

	if c.DefaultThumbnail == "" {
		return fmt.Errorf("default_thumbnail cannot be empty")
	}

	if c.DisplayWidth < 1 {
		return fmt.Errorf("display_width must be positive, got %d", c.DisplayWidth)
	}

	return nil
}

// MaxUploadBytes converts the configured limit to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}
