package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultDailyQuota is the per-principal request budget per UTC day,
// used when DAILY_QUOTA_LIMIT is unset or unparsable.
const DefaultDailyQuota = 50

// Config holds application configuration values loaded from environment variables.
//
// Provider credentials, the verifier audience and the Redis address are
// deliberately NOT validated here: each is checked at first use, so a
// deployment that never touches a given provider starts fine without
// that provider's key.
type Config struct {
	HTTPPort string

	OpenAIKey    string
	AnthropicKey string
	GeminiKey    string

	// GoogleClientID is the expected audience for incoming ID tokens.
	// Empty means the deployment runs unauthenticated.
	GoogleClientID string

	// RedisAddr points at the shared counter store. Empty means quota
	// enforcement is disabled.
	RedisAddr     string
	RedisPassword string
	DailyQuota    int

	// Base-URL overrides for the provider endpoints. Empty selects the
	// real API hosts; tests point these at local servers.
	OpenAIBaseURL    string
	AnthropicBaseURL string
	GeminiBaseURL    string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables only")
	}

	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
		AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
		GeminiKey:        getEnv("GEMINI_API_KEY", ""),
		GoogleClientID:   getEnv("GOOGLE_CLIENT_ID", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		DailyQuota:       getEnvInt("DAILY_QUOTA_LIMIT", DefaultDailyQuota),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", ""),
	}

	logrus.WithFields(logrus.Fields{
		"port":        cfg.HTTPPort,
		"auth":        cfg.GoogleClientID != "",
		"quota":       cfg.RedisAddr != "",
		"daily_quota": cfg.DailyQuota,
	}).Info("Configuration loaded")

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		logrus.Warnf("Invalid %s %q, using default %d", key, raw, fallback)
		return fallback
	}
	return value
}
