package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunchhieng/shelf/internal/model"
	"github.com/bunchhieng/shelf/internal/view"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SHELF_DB_PATH", "")
	t.Setenv("SHELF_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("SHELF_DB_PATH", "")
	t.Setenv("SHELF_LOG_LEVEL", "")

	path := writeConfig(t, `
db_path: /tmp/shelf.db
log_level: DEBUG
default_order: Oldest
page_size: 20
default_icon: star
platforms:
  - platform: nebula
    domains: [nebula.tv]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/shelf.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, view.Oldest, cfg.DefaultOrder)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, "star", cfg.DefaultIcon)
	require.Len(t, cfg.Platforms, 1)
	assert.Equal(t, model.Platform("nebula"), cfg.Platforms[0].Platform)
	assert.Equal(t, []string{"nebula.tv"}, cfg.Platforms[0].Domains)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SHELF_DB_PATH", "/env/links.db")
	t.Setenv("SHELF_LOG_LEVEL", "error")

	cfg, err := Load(writeConfig(t, "db_path: /file/links.db\n"))
	require.NoError(t, err)
	assert.Equal(t, "/env/links.db", cfg.DBPath)
	assert.Equal(t, "error", cfg.LogLevel)

	path, err := cfg.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, "/env/links.db", path)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SHELF_DB_PATH", "")
	t.Setenv("SHELF_LOG_LEVEL", "")

	for name, body := range map[string]string{
		"order":    "default_order: sideways\n",
		"page":     "page_size: -1\n",
		"platform": "platforms:\n  - platform: nebula\n",
		"yaml":     "page_size: [\n",
		"all":      "platforms:\n  - platform: All\n    domains: [everything.example]\n",
		"prefix":   "platforms:\n  - platform: \"tab:x\"\n    domains: [tabs.example]\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
