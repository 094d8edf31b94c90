package config

import (
	"fmt"
	"os"
	"time"

	"github.com/example/vocabharvester/internal/database"
	"github.com/example/vocabharvester/internal/scheduler"
)

// Config holds the application's configuration.
type Config struct {
	Database    database.Config
	Sessions    sessionsConfig
	Translation translationConfig
	Cleanup     cleanupConfig
	Debug       bool
}

type sessionsConfig struct {
	Dir               string
	IrregularVerbPath string
}

type translationConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

type cleanupConfig struct {
	Enabled  bool
	Interval time.Duration
}

// FromEnv builds the configuration from environment variables, falling
// back to defaults suitable for local use.
func FromEnv() Config {
	return Config{
		Database: database.Config{
			Driver: envString("DB_TYPE", "sqlite3"),
			Path:   envString("DB_PATH", "data/vocab.db"),
			DSN:    envString("DATABASE_URL", ""),
		},
		Sessions: sessionsConfig{
			Dir:               envString("SESSIONS_DIR", "data/sessions"),
			IrregularVerbPath: envString("IRREGULAR_VERBS_PATH", ""),
		},
		Translation: translationConfig{
			BaseURL:    envString("TRANSLATION_URL", ""),
			Timeout:    envDuration("TRANSLATION_TIMEOUT", 10*time.Second),
			MaxRetries: envInt("TRANSLATION_MAX_RETRIES", 3),
		},
		Cleanup: cleanupConfig{
			Enabled:  envBool("CLEANUP_ENABLED", true),
			Interval: envDuration("CLEANUP_INTERVAL", scheduler.DefaultCleanupInterval),
		},
		Debug: envBool("DEBUG", false),
	}
}

func envString(key, def string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return val
}

func envInt(key string, def int) int {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	var val int
	if _, err := fmt.Sscanf(valStr, "%d", &val); err != nil {
		return def
	}
	return val
}

func envBool(key string, def bool) bool {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	switch valStr {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return def
	}
	return val
}
