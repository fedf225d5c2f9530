package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSQLiteWithDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("JWT_SECRET=from-file\nAPP_PORT=9090\n"), 0o600))

	t.Setenv("ENV_FILE", envFile)
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "db.sqlite"))
	t.Setenv("RABBITMQ_URL", "amqp://u:p@broker:5672/")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "amqp://u:p@broker:5672/", cfg.RabbitURL)
	assert.Equal(t, 60, cfg.AccessTTLMin)

	// godotenv does not override the process environment
	t.Setenv("JWT_SECRET", "from-env")
	assert.Equal(t, "from-env", Load().JWTSecret)
}

func TestLoadEditorConfig(t *testing.T) {
	t.Setenv("EDITOR_SESSION_TTL", "2h")
	t.Setenv("EDITOR_DRAFT_TTL", "1h")
	t.Setenv("EDITOR_CANVAS_WIDTH", "-5")

	cfg := LoadEditorConfig()
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 2*time.Hour, cfg.DraftTTL)
	assert.Equal(t, 700.0, cfg.DefaultWidth)
	assert.Equal(t, 500.0, cfg.DefaultHeight)
	assert.Equal(t, "seatmap:draft", cfg.DraftPrefix)
	assert.Equal(t, 4000.0, cfg.MaxWidth)
	assert.Equal(t, 4000.0, cfg.MaxHeight)
}

func TestLoadEditorConfigSizeLimits(t *testing.T) {
	t.Setenv("EDITOR_MAX_WIDTH", "10000")
	t.Setenv("EDITOR_MAX_HEIGHT", "1e9")
	t.Setenv("EDITOR_CANVAS_WIDTH", "12000")

	cfg := LoadEditorConfig()
	assert.Equal(t, 10000.0, cfg.MaxWidth)
	assert.Equal(t, 10000.0, cfg.MaxHeight)
	assert.Equal(t, 10000.0, cfg.DefaultWidth)

	t.Setenv("EDITOR_MAX_HEIGHT", "400")
	cfg = LoadEditorConfig()
	assert.Equal(t, 400.0, cfg.MaxHeight)
	assert.Equal(t, 400.0, cfg.DefaultHeight)
}

func TestLoadRateLimitConfigFloors(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "10s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 50*time.Second, cfg.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_ENABLED", "off")

	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
}
