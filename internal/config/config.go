package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
)

type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Inference InferenceConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Input     InputConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Env           string
	Addr          string
	AllowedOrigin string
}

// IsProduction reports whether CORS should be restricted to AllowedOrigin.
func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

type GeminiConfig struct {
	APIKey string
	Models []string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type InferenceConfig struct {
	AttemptTimeout time.Duration
}

type RateLimitConfig struct {
	Backend     string
	MaxRequests int
	Window      time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type InputConfig struct {
	MinLength int
	MaxLength int
}

type DatabaseConfig struct {
	URL string
}

type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

type MetricsConfig struct {
	Enabled bool
}

// HasInferenceCredentials reports whether at least one provider can be built.
func (c *Config) HasInferenceCredentials() bool {
	return c.Gemini.APIKey != "" || c.OpenAI.APIKey != "" || c.Anthropic.APIKey != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Env:           getEnv("APP_ENV", "development"),
			Addr:          getEnv("HTTP_ADDR", ":8080"),
			AllowedOrigin: getEnv("ALLOWED_ORIGIN", constants.HTTPConfig.ProductionOrigin),
		},
		Gemini: GeminiConfig{
			APIKey: firstEnv("GEMINI_API_KEY", "API_KEY"),
			Models: parseCommaSeparated(getEnv("GEMINI_MODELS", strings.Join(constants.DefaultModels.Gemini, ","))),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", constants.DefaultModels.OpenAI),
		},
		Anthropic: AnthropicConfig{
			APIKey: getEnv("ANTHROPIC_API_KEY", ""),
			Model:  getEnv("ANTHROPIC_MODEL", constants.DefaultModels.Anthropic),
		},
		Inference: InferenceConfig{
			AttemptTimeout: getEnvDuration("INFERENCE_ATTEMPT_TIMEOUT", constants.InferenceConfig.AttemptTimeout),
		},
		RateLimit: RateLimitConfig{
			Backend:     getEnv("RATE_LIMIT_BACKEND", "memory"),
			MaxRequests: getEnvInt("RATE_LIMIT_MAX", constants.RateLimitConfig.MaxRequests),
			Window:      getEnvDuration("RATE_LIMIT_WINDOW", constants.RateLimitConfig.Window),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Input: InputConfig{
			MinLength: getEnvInt("INPUT_MIN_LENGTH", constants.InputLimits.MinLength),
			MaxLength: getEnvInt("INPUT_MAX_LENGTH", constants.InputLimits.MaxLength),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
			File:   getEnv("LOG_FILE", ""),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks structural settings only. Missing inference credentials are reported
// per request instead, so the process still serves its status endpoint.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("RATE_LIMIT_BACKEND must be memory or redis, got %q", c.RateLimit.Backend)
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.Input.MinLength < 1 || c.Input.MaxLength < c.Input.MinLength {
		return fmt.Errorf("invalid input bounds [%d, %d]", c.Input.MinLength, c.Input.MaxLength)
	}
	if c.Gemini.APIKey != "" && len(c.Gemini.Models) == 0 {
		return fmt.Errorf("GEMINI_MODELS must list at least one model")
	}
	if c.Inference.AttemptTimeout <= 0 {
		return fmt.Errorf("INFERENCE_ATTEMPT_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
