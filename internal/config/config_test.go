package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "yatube.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
addr: ":8080"
database:
  driver: sqlite
  dsn: /tmp/yatube.db
session:
  duration: 2h
posts_per_page: 5
log:
  level: debug
  development: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/yatube.db", cfg.Database.DSN)
	assert.Equal(t, 2*time.Hour, cfg.Session.Duration)
	assert.Equal(t, 5, cfg.PostsPerPage)
	assert.True(t, cfg.Log.Development)

	// Незаданные поля сохраняют значения по умолчанию
	assert.Equal(t, "./ui/html", cfg.HTMLDir)
	assert.Equal(t, time.Hour, cfg.Session.CleanupInterval)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: postgres
posts_per_page: 0
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
	assert.Contains(t, err.Error(), "posts_per_page")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "addr: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load("../../yatube.example.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
