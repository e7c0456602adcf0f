package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

type Config struct {
	LogLevel string

	AnthropicAPIKey   string
	AnthropicBaseURL  string
	Model             string
	MaxTokens         int
	RequestsPerMinute int

	Concurrency           int
	ExtractTimeoutSeconds int

	RulesPath string

	MetricsPort string
}

func Load() Config {
	return Config{
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		AnthropicAPIKey:   mustEnv("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL:  mustEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		Model:             mustEnv("CLAUDE_MODEL", "claude-sonnet-4-20250514"),
		MaxTokens:         mustEnvInt("CLAUDE_MAX_TOKENS", 2000),
		RequestsPerMinute: mustEnvInt("CLAUDE_REQUESTS_PER_MINUTE", 0),

		Concurrency:           mustEnvInt("BATCH_CONCURRENCY", 1),
		ExtractTimeoutSeconds: mustEnvInt("EXTRACT_TIMEOUT_SECONDS", 120),

		RulesPath: mustEnv("RULES_PATH", ""),

		MetricsPort: mustEnv("METRICS_PORT", ""),
	}
}

// Validate rejects configurations the engine cannot run with. A missing API
// key fails the whole run up front rather than once per pair.
func (c Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return domain.WrapError(domain.ErrMissingCredential, "config.Validate",
			fmt.Errorf("ANTHROPIC_API_KEY is not set"))
	}
	if c.Concurrency < 1 {
		return domain.WrapError(domain.ErrInvalidInput, "config.Validate",
			fmt.Errorf("BATCH_CONCURRENCY must be at least 1, got %d", c.Concurrency))
	}
	if c.ExtractTimeoutSeconds < 1 {
		return domain.WrapError(domain.ErrInvalidInput, "config.Validate",
			fmt.Errorf("EXTRACT_TIMEOUT_SECONDS must be at least 1, got %d", c.ExtractTimeoutSeconds))
	}
	return nil
}

func (c Config) ExtractTimeout() time.Duration {
	return time.Duration(c.ExtractTimeoutSeconds) * time.Second
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
