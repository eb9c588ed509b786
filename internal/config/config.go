package config

import (
	"os"
	"strconv"
	"time"

	"scenforge/internal/apperr"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	Batch  BatchConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LLMConfig holds text-provider settings. APIKey may be empty: the server
// then runs with the offline static provider only.
type LLMConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	FallbackText string
}

// BatchConfig holds batch-generation settings
type BatchConfig struct {
	MaxParallel int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("SCENFORGE_PORT", "8080"),
			ReadTimeout:  getEnvDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
		},
		LLM: LLMConfig{
			APIKey:       os.Getenv("OPENAI_API_KEY"),
			BaseURL:      getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:        getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
			MaxTokens:    getEnvIntOrDefault("LLM_MAX_TOKENS", 1024),
			Temperature:  getEnvFloatOrDefault("LLM_TEMPERATURE", 0.7),
			Timeout:      getEnvDurationOrDefault("LLM_TIMEOUT", 30*time.Second),
			FallbackText: os.Getenv("LLM_FALLBACK_TEXT"),
		},
		Batch: BatchConfig{
			MaxParallel: getEnvIntOrDefault("BATCH_MAX_PARALLEL", 4),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, apperr.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return apperr.ConfigInvalid("SCENFORGE_PORT must be numeric")
	}
	if config.Batch.MaxParallel < 1 {
		return apperr.ConfigInvalid("BATCH_MAX_PARALLEL must be at least 1")
	}
	if config.LLM.Temperature < 0 || config.LLM.Temperature > 2 {
		return apperr.ConfigInvalid("LLM_TEMPERATURE must be between 0 and 2")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
