// Package config centralizes environment-supplied settings into one struct
// validated at startup and passed into each component, replacing the pattern
// of clients constructed at module load from bare env reads.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every externally supplied setting.
type Config struct {
	Port        string
	DatabaseURL string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	AssistantID   string

	AppBaseURL   string
	ResendAPIKey string
	EmailFrom    string

	LogLevel string

	PollInterval    time.Duration
	PollMaxAttempts int
}

// Load reads configuration from the environment, applying defaults for the
// optional values. It does not validate; call Validate once at startup.
func Load() Config {
	return Config{
		Port:            envOr("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		AssistantID:     os.Getenv("OPENAI_ASSISTANT_ID"),
		AppBaseURL:      envOr("APP_BASE_URL", "http://localhost:8080"),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		EmailFrom:       envOr("EMAIL_FROM", "Smart Tasks <invites@yourdomain.com>"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		PollInterval:    envDuration("AI_POLL_INTERVAL", time.Second),
		PollMaxAttempts: envInt("AI_POLL_MAX_ATTEMPTS", 10),
	}
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
