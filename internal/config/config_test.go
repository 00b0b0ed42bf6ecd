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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMustLoad(t *testing.T) {
	path := writeConfig(t, `
listen_port: "9090"
log_level: debug
poll_interval_seconds: 30
services:
  identity: http://identity:3001
  loyalty: http://loyalty:3003
  delivery: http://delivery:3004
  email: http://email:3002
`)

	cfg := MustLoad(path)

	assert.Equal(t, "9090", cfg.ListenPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.PollInterval())
	assert.Equal(t, "http://identity:3001", cfg.Services.Identity)
	assert.Equal(t, "http://email:3002", cfg.Services.Email)
}

func TestMustLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
services:
  identity: http://identity:3001
  loyalty: http://loyalty:3003
  delivery: http://delivery:3004
`)

	cfg := MustLoad(path)

	assert.Equal(t, "8081", cfg.ListenPort)
	assert.Equal(t, "state", cfg.StateDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, defaultPollSeconds*time.Second, cfg.PollInterval())
	assert.Empty(t, cfg.Services.Email, "email service stays optional")
}

func TestApplyEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
listen_port: "9090"
state_dir: /var/lib/portal
services:
  identity: http://identity:3001
  loyalty: http://loyalty:3003
  delivery: http://delivery:3004
`)
	t.Setenv("PORT", "7070")
	t.Setenv("STATE_DIR", "/tmp/portal-state")

	cfg := MustLoad(path)
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "7070", cfg.ListenPort)
	assert.Equal(t, "/tmp/portal-state", cfg.StateDir)
}

func TestApplyEnvOverrides_EmptyEnvKeepsConfig(t *testing.T) {
	path := writeConfig(t, `
services:
  identity: http://identity:3001
  loyalty: http://loyalty:3003
  delivery: http://delivery:3004
`)
	t.Setenv("PORT", "")
	t.Setenv("STATE_DIR", "")

	cfg := MustLoad(path)
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "8081", cfg.ListenPort)
	assert.Equal(t, "state", cfg.StateDir)
}

func TestMustLoad_RequiredFields(t *testing.T) {
	// loyalty base address is intentionally missing
	path := writeConfig(t, `
services:
  identity: http://identity:3001
  delivery: http://delivery:3004
`)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing required field, got none")
		}
	}()

	_ = MustLoad(path)
}

func TestMustLoad_MissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for missing config file, got none")
		}
	}()

	_ = MustLoad(filepath.Join(t.TempDir(), "nope.yaml"))
}
