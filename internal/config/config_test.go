package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := setupTestHome(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, filepath.Join(home, ".config", "actai", "session"), cfg.Session.Path)
	assert.Equal(t, "file", cfg.Notes.Backend)
	assert.Equal(t, filepath.Join(home, ".config", "actai", "notes.json"), cfg.Notes.Path)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15*time.Minute, cfg.Snapshot.Interval)
	assert.Equal(t, "UTC", cfg.Snapshot.Timezone)
}

func TestLoad_FileThenEnv(t *testing.T) {
	setupTestHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
api:
  base_url: https://actai.example.com/api
  timeout: 5s
  rate_limit: 2
notes:
  backend: redis
  redis_addr: redis:6379
log:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("ACTAI_API_BASE_URL", "http://override:8003/api")
	t.Setenv("ACTAI_NOTES_REDIS_KEY", "team:notes")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:8003/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.InDelta(t, 2.0, cfg.API.RateLimit, 0)
	assert.Equal(t, 1, cfg.API.Burst)
	assert.Equal(t, "redis", cfg.Notes.Backend)
	assert.Equal(t, "redis:6379", cfg.Notes.RedisAddr)
	assert.Equal(t, "team:notes", cfg.Notes.RedisKey)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Invalid(t *testing.T) {
	setupTestHome(t)
	t.Setenv("ACTAI_NOTES_BACKEND", "s3")
	_, err := Load("")
	assert.ErrorContains(t, err, "notes.backend")
}

func TestLoad_BadYAML(t *testing.T) {
	setupTestHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "api.base_url", envKey("ACTAI_API_BASE_URL"))
	assert.Equal(t, "mysql.dsn", envKey("ACTAI_MYSQL_DSN"))
	assert.Equal(t, "notes.redis_db", envKey("ACTAI_NOTES_REDIS_DB"))
}

func TestValidate(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg, t.TempDir())
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.API.BaseURL = "localhost:8003"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Log.Level = "trace"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Snapshot.Timezone = "Mars/Olympus"
	assert.ErrorContains(t, bad.Validate(), "snapshot.timezone")
}

func TestLoad_SnapshotFromEnv(t *testing.T) {
	setupTestHome(t)
	t.Setenv("ACTAI_SNAPSHOT_INTERVAL", "1h")
	t.Setenv("ACTAI_SNAPSHOT_TIMEZONE", "Europe/Berlin")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.Snapshot.Interval)
	assert.Equal(t, "Europe/Berlin", cfg.Snapshot.Timezone)
}
