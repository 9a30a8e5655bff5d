// Package config loads store configuration from an optional TOML file and
// environment variables, environment taking precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/TonnenFred/soundmap-bot/internal/constants"
)

// Config holds all application configuration
type Config struct {
	DBPath    string `toml:"db_path"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		DBPath:    getEnv("DB_PATH", constants.DefaultDBPath),
		LogLevel:  getEnv("LOG_LEVEL", constants.DefaultLogLevel),
		LogFormat: getEnv("LOG_FORMAT", constants.DefaultLogFormat),
	}
}

// LoadFile reads a TOML config file and overlays environment variables on
// top, so deployments can override individual file settings.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{
		DBPath:    constants.DefaultDBPath,
		LogLevel:  constants.DefaultLogLevel,
		LogFormat: constants.DefaultLogFormat,
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	return cfg, nil
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
