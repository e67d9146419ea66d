// Package config loads shelf settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bunchhieng/shelf/internal/platform"
	"github.com/bunchhieng/shelf/internal/view"
)

// Config holds all application configuration.
type Config struct {
	DBPath       string          `yaml:"db_path"`
	LogLevel     string          `yaml:"log_level"`
	DefaultOrder view.Order      `yaml:"default_order"`
	PageSize     int             `yaml:"page_size"`
	DefaultIcon  string          `yaml:"default_icon"`
	Platforms    []platform.Rule `yaml:"platforms"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		LogLevel:     "warn",
		DefaultOrder: view.Newest,
		PageSize:     50,
	}
}

// Dir returns the per-user shelf directory.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "shelf"), nil
}

// DefaultPath returns where Load looks when given no path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the file at path, or DefaultPath when path is empty. A missing
// file is not an error. SHELF_DB_PATH and SHELF_LOG_LEVEL override the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, fmt.Errorf("locate config: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.DBPath = getEnv("SHELF_DB_PATH", cfg.DBPath)
	cfg.LogLevel = getEnv("SHELF_LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalises values and rejects ones that cannot be used.
func (c *Config) Validate() error {
	order, ok := view.ParseOrder(string(c.DefaultOrder))
	if !ok && c.DefaultOrder != "" {
		return fmt.Errorf("default_order must be newest or oldest, got %q", c.DefaultOrder)
	}
	c.DefaultOrder = order

	if c.PageSize < 0 {
		return fmt.Errorf("page_size must not be negative, got %d", c.PageSize)
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	for i, r := range c.Platforms {
		if strings.TrimSpace(string(r.Platform)) == "" || len(r.Domains) == 0 {
			return fmt.Errorf("platforms[%d] needs a platform and at least one domain", i)
		}
		if platform.Reserved(r.Platform) {
			return fmt.Errorf("platforms[%d]: %q is reserved", i, r.Platform)
		}
	}
	return nil
}

// ResolveDBPath returns DBPath, defaulting to links.db in Dir.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "links.db"), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
