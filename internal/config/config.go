// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// The client origins the deployed frontend is served from. Overridable via
// CORS_ALLOWED_ORIGINS.
var defaultAllowedOrigins = []string{
	"https://opsontherocks.student.k8s.aet.cit.tum.de",
	"https://client.54.166.45.176.nip.io",
	"http://localhost:5173",
}

// Config holds everything the service needs at startup.
type Config struct {
	Port           int
	DatabaseURL    string
	JWTSecret      string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	ChatModel      string
	FeedbackModel  string
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string

	portErr error
}

// FromEnv reads configuration from environment variables, applying defaults
// for the optional ones. Call Validate before using the result.
func FromEnv() Config {
	cfg := Config{
		Port:           5001,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ChatModel:      envOr("CHAT_MODEL", "gpt-3.5-turbo"),
		FeedbackModel:  envOr("FEEDBACK_MODEL", "gpt-4"),
		AllowedOrigins: defaultAllowedOrigins,
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogFormat:      envOr("LOG_FORMAT", "text"),
	}

	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			cfg.portErr = fmt.Errorf("invalid PORT %q: %w", raw, err)
		} else {
			cfg.Port = port
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		cfg.AllowedOrigins = splitAndTrimCSV(raw)
	}

	return cfg
}

// Validate enforces the fail-fast startup requirements. The service must not
// begin serving with an incomplete configuration.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set in environment")
	}
	if len(c.JWTSecret) < 64 {
		return fmt.Errorf("JWT_SECRET missing or too short (needs >= 64 chars)")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set")
	}
	if c.portErr != nil {
		return c.portErr
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitAndTrimCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
