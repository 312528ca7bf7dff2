package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.True(t, cfg.Relay.Embed)
	assert.Equal(t, time.Minute, cfg.Reminder.Interval)
}

func TestLoadYAMLFile(t *testing.T) {
	content := []byte(`
server:
  port: 9000
  gin_mode: release
database:
  driver: postgres
  host: db.internal
relay:
  embed: false
  url: nats://relay.internal:4222
reminder:
  interval: 30s
`)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.False(t, cfg.Relay.Embed)
	assert.Equal(t, "nats://relay.internal:4222", cfg.Relay.URL)
	assert.Equal(t, 30*time.Second, cfg.Reminder.Interval)

	// Untouched keys keep their defaults.
	assert.Equal(t, "3306", cfg.Database.Port)
}

func TestEnvOverridesFile(t *testing.T) {
	content := []byte("server:\n  port: 9000\n")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("BOARD_SERVER_PORT", "9100")
	t.Setenv("BOARD_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("BOARD_DATABASE_HOST", "env-db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "env-db", cfg.Database.Host)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "server.port", envTransform("BOARD_SERVER_PORT"))
	assert.Equal(t, "auth.jwt_secret", envTransform("BOARD_AUTH_JWT_SECRET"))
	assert.Equal(t, "database.host", envTransform("BOARD_DATABASE_HOST"))
}
