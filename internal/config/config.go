package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Valkey   ValkeyConfig   `mapstructure:"valkey"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Quota    QuotaConfig    `mapstructure:"quota"    validate:"required"`
	Batch    BatchConfig    `mapstructure:"batch"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// ValkeyConfig contains settings for the fast key-value tier used by the
// response cache and the daily quota counters. The fast tier is optional:
// with Enabled=false the application runs in no-cache, no-fast-quota mode.
type ValkeyConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"    validate:"required_if=Enabled true"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"         validate:"gte=0"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey        string        `mapstructure:"gemini_api_key"         validate:"required"`
	ModelName           string        `mapstructure:"model_name"             validate:"required"`
	MaxTokensPerRequest int           `mapstructure:"max_tokens_per_request" validate:"gt=0"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"        validate:"gt=0"`
}

// QuotaConfig controls per-user daily token accounting.
//
// Enforce selects between advisory mode (the default: headroom checks are
// computed and recorded but generation proceeds) and hard enforcement
// (requests that would exceed the daily limit are rejected before the
// provider is called).
type QuotaConfig struct {
	DefaultDailyLimit int  `mapstructure:"default_daily_limit" validate:"gt=0"`
	Enforce           bool `mapstructure:"enforce"`
}

// BatchConfig controls the request coalescing layer in front of the provider.
type BatchConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Window  time.Duration `mapstructure:"window"   validate:"required_if=Enabled true"`
	MaxSize int           `mapstructure:"max_size" validate:"required_if=Enabled true"`
}
