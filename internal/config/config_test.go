package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "data/vocab.db", cfg.Database.Path)
	assert.Equal(t, "data/sessions", cfg.Sessions.Dir)
	assert.Equal(t, 10*time.Second, cfg.Translation.Timeout)
	assert.Equal(t, 3, cfg.Translation.MaxRetries)
	assert.True(t, cfg.Cleanup.Enabled)
	assert.False(t, cfg.Debug)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/vocab")
	t.Setenv("TRANSLATION_TIMEOUT", "30s")
	t.Setenv("TRANSLATION_MAX_RETRIES", "5")
	t.Setenv("CLEANUP_ENABLED", "false")
	t.Setenv("DEBUG", "1")

	cfg := FromEnv()

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/vocab", cfg.Database.DSN)
	assert.Equal(t, 30*time.Second, cfg.Translation.Timeout)
	assert.Equal(t, 5, cfg.Translation.MaxRetries)
	assert.False(t, cfg.Cleanup.Enabled)
	assert.True(t, cfg.Debug)
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("TRANSLATION_TIMEOUT", "soon")
	t.Setenv("TRANSLATION_MAX_RETRIES", "many")
	t.Setenv("DEBUG", "maybe")

	cfg := FromEnv()

	assert.Equal(t, 10*time.Second, cfg.Translation.Timeout)
	assert.Equal(t, 3, cfg.Translation.MaxRetries)
	assert.False(t, cfg.Debug)
}
