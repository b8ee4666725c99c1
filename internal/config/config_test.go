package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_DRIVER", "DATABASE_URL", "AUTO_MIGRATE", "REDIS_DB", "EVENTS_PUBLISH_TIMEOUT", "LOG_LEVEL", "USER_EVENTS_STREAM"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "user.events", cfg.UserEventsStream)
	assert.Equal(t, 5*time.Second, cfg.EventsPublishTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_DRIVER", "sqlite3")
	t.Setenv("DATABASE_URL", "file:users.db")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("EVENTS_PUBLISH_TIMEOUT", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, "file:users.db", cfg.DatabaseURL)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 250*time.Millisecond, cfg.EventsPublishTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("REDIS_DB", "three")
	t.Setenv("AUTO_MIGRATE", "maybe")
	t.Setenv("EVENTS_PUBLISH_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.RedisDB)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 5*time.Second, cfg.EventsPublishTimeout)
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mysql")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported DATABASE_DRIVER")
}
