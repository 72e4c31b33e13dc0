package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"
	AppEnv        string `mapstructure:"APP_ENV"`        // "development" or "production"

	// LLM Configuration
	LLMProvider     string  `mapstructure:"LLM_PROVIDER"` // "openai" or "anthropic"
	LLMModel        string  `mapstructure:"LLM_MODEL"`    // empty selects the provider default
	LLMTemperature  float64 `mapstructure:"LLM_TEMPERATURE"`
	OpenAIKey       string  `mapstructure:"OPENAI_API_KEY"`
	AnthropicAPIKey string  `mapstructure:"ANTHROPIC_API_KEY"`

	// Artifact Cache Configuration
	CacheBackend  string `mapstructure:"CACHE_BACKEND"` // "file", "redis" or "memory"
	CachePath     string `mapstructure:"CACHE_PATH"`    // JSON document for the file backend
	RedisAddress  string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisCacheKey string `mapstructure:"REDIS_CACHE_KEY"`

	// Budgets
	MaxTokensBaseFile   int    `mapstructure:"MAX_TOKENS_BASE_FILE"`
	MaxTokensPage       int    `mapstructure:"MAX_TOKENS_PAGE"`
	MaxTokensComponents int    `mapstructure:"MAX_TOKENS_COMPONENTS"`
	LargeCallThreshold  int    `mapstructure:"LARGE_CALL_THRESHOLD"` // calls above this are never retried
	RetryMaxAttempts    int    `mapstructure:"RETRY_MAX_ATTEMPTS"`
	RetryBackoffMS      int    `mapstructure:"RETRY_BACKOFF_MS"`
	PacingIntervalMS    int    `mapstructure:"PACING_INTERVAL_MS"`
	MaxPages            int    `mapstructure:"MAX_PAGES"`
	MaxCustomComponents int    `mapstructure:"MAX_CUSTOM_COMPONENTS"`
	PagePriorities      string `mapstructure:"PAGE_PRIORITIES"` // comma separated, e.g. "high,medium"

	// Diagnostics
	DisableTruncationCheck bool   `mapstructure:"DISABLE_TRUNCATION_CHECK"`
	CompressMinSize        int    `mapstructure:"COMPRESS_MIN_SIZE"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"` // "json" or "console"

	// Output
	OutputDir string `mapstructure:"OUTPUT_DIR"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":           ":8080",
	"APP_ENV":                  "development",
	"LLM_PROVIDER":             "openai",
	"LLM_MODEL":                "",
	"LLM_TEMPERATURE":          0.3,
	"OPENAI_API_KEY":           "",
	"ANTHROPIC_API_KEY":        "",
	"CACHE_BACKEND":            "file",
	"CACHE_PATH":               "data/component-cache.json",
	"REDIS_ADDRESS":            "localhost:6379",
	"REDIS_PASSWORD":           "",
	"REDIS_DB":                 0,
	"REDIS_CACHE_KEY":          "sitegen:artifact-cache",
	"MAX_TOKENS_BASE_FILE":     1500,
	"MAX_TOKENS_PAGE":          2500,
	"MAX_TOKENS_COMPONENTS":    4000,
	"LARGE_CALL_THRESHOLD":     3000,
	"RETRY_MAX_ATTEMPTS":       2,
	"RETRY_BACKOFF_MS":         2000,
	"PACING_INTERVAL_MS":       1500,
	"MAX_PAGES":                5,
	"MAX_CUSTOM_COMPONENTS":    6,
	"PAGE_PRIORITIES":          "high,medium",
	"DISABLE_TRUNCATION_CHECK": false,
	"COMPRESS_MIN_SIZE":        200,
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               "console",
	"OUTPUT_DIR":               "tmp",
}

// LoadConfig reads configuration from config.yaml in path and from
// environment variables. Environment variables win.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("LLM_PROVIDER must be openai or anthropic, got %q", c.LLMProvider)
	}
	switch c.CacheBackend {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("CACHE_BACKEND must be file, redis or memory, got %q", c.CacheBackend)
	}
	if c.CacheBackend == "file" && c.CachePath == "" {
		return errors.New("CACHE_PATH is required for the file cache backend")
	}
	for _, p := range c.Priorities() {
		switch p {
		case "high", "medium", "low":
		default:
			return fmt.Errorf("PAGE_PRIORITIES contains unknown priority %q", p)
		}
	}
	return nil
}

// APIKey returns the key for the configured provider.
func (c Config) APIKey() string {
	if c.LLMProvider == "anthropic" {
		return c.AnthropicAPIKey
	}
	return c.OpenAIKey
}

// Priorities splits PAGE_PRIORITIES.
func (c Config) Priorities() []string {
	var out []string
	for _, p := range strings.Split(c.PagePriorities, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffMS) * time.Millisecond
}

func (c Config) PacingInterval() time.Duration {
	return time.Duration(c.PacingIntervalMS) * time.Millisecond
}

func (c Config) IsProduction() bool { return c.AppEnv == "production" }
