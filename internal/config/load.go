package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally a config file.
// Environment variables (prefixed with CARDWISE_) take precedence over values
// from config files. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file in the working directory or /etc/cardwise
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/cardwise")

	// Environment variables: CARDWISE_SERVER_PORT, CARDWISE_DATABASE_URL, ...
	v.SetEnvPrefix("CARDWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing config file is fine; environment variables may be enough.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values for settings that have sensible
// fallbacks. Required settings without defaults (database URL, API key)
// must come from the environment or a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	// Keys without a meaningful default still need to be registered so that
	// AutomaticEnv can populate them during Unmarshal.
	v.SetDefault("database.url", "")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("valkey.address", "")
	v.SetDefault("valkey.password", "")

	v.SetDefault("valkey.enabled", false)
	v.SetDefault("valkey.db", 0)
	v.SetDefault("valkey.key_prefix", "cardwise")

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_tokens_per_request", 1000)
	v.SetDefault("llm.request_timeout", 30*time.Second)

	v.SetDefault("quota.default_daily_limit", 10000)
	v.SetDefault("quota.enforce", false)

	v.SetDefault("batch.enabled", false)
	v.SetDefault("batch.window", time.Second)
	v.SetDefault("batch.max_size", 10)
}
