// Package config defines the application configuration structure and loading
// logic. Settings are read from environment variables (CARDWISE_ prefix) with
// an optional YAML config file, unmarshaled via viper, and validated with
// go-playground/validator.
package config
