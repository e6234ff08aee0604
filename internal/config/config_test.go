package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "LOG_LEVEL", "REDIS_URL", "DATA_DIR",
		"LLM_PROVIDER", "GRAPH_API_BASE_URL",
		"CLASSIFIER_TIMEOUT", "STORAGE_TIMEOUT", "MATCHING_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "openrouter", cfg.LLMProvider)
	assert.Equal(t, "https://graph.facebook.com/v19.0", cfg.GraphAPIBaseURL)
	assert.Equal(t, 20*time.Second, cfg.ClassifierTimeout)
	assert.Equal(t, 5*time.Second, cfg.StorageTimeout)
	assert.Equal(t, 10*time.Second, cfg.MatchingTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("CLASSIFIER_TIMEOUT", "3s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "mock", cfg.LLMProvider)
	assert.Equal(t, 3*time.Second, cfg.ClassifierTimeout)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 30*time.Second, parseDuration("30s"))
	assert.Equal(t, 10*time.Second, parseDuration("not-a-duration"))
	assert.Equal(t, 10*time.Second, parseDuration("-5s"))
}
