package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string
	DataDir  string

	// LLMProvider selects the classifier backend: "openrouter" or "mock".
	LLMProvider      string
	OpenRouterAPIKey string
	ModelName        string

	// WhatsApp channel credentials.
	VerifyToken     string
	AccessToken     string
	PhoneNumberID   string
	GraphAPIBaseURL string

	// Bounded timeouts for the three suspending calls of a turn.
	ClassifierTimeout time.Duration
	StorageTimeout    time.Duration
	MatchingTimeout   time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		RedisURL: getEnv("REDIS_URL", "localhost:6379"),
		DataDir:  getEnv("DATA_DIR", "./data"),

		LLMProvider:      getEnv("LLM_PROVIDER", "openrouter"),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		ModelName:        getEnv("OPENROUTER_MODEL", "gpt-4o-mini"),

		VerifyToken:     getEnv("VERIFY_TOKEN", ""),
		AccessToken:     getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		PhoneNumberID:   getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		GraphAPIBaseURL: getEnv("GRAPH_API_BASE_URL", "https://graph.facebook.com/v19.0"),

		ClassifierTimeout: parseDuration(getEnv("CLASSIFIER_TIMEOUT", "20s")),
		StorageTimeout:    parseDuration(getEnv("STORAGE_TIMEOUT", "5s")),
		MatchingTimeout:   parseDuration(getEnv("MATCHING_TIMEOUT", "10s")),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
