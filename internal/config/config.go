// Package config loads gbgraph settings from an optional TOML file, an
// optional .env file and GBGRAPH_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultFile is read from the working directory when no file is given.
const DefaultFile = "gbgraph.toml"

// Config holds all application configuration
type Config struct {
	Env    string       `toml:"env"`
	Log    LogConfig    `toml:"log"`
	Verify VerifyConfig `toml:"verify"`
}

// LogConfig selects the log level and an optional rotating log file.
type LogConfig struct {
	Level   string `toml:"level"`
	File    string `toml:"file"`
	MaxSize int    `toml:"max_log_size"` // megabytes
	MaxAge  int    `toml:"max_log_age"`  // days
}

// VerifyConfig tunes the verify command.
type VerifyConfig struct {
	Jobs      int    `toml:"jobs"`
	StateFile string `toml:"state_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Env: "development",
		Log: LogConfig{
			Level:   "info",
			MaxSize: 100,
			MaxAge:  28,
		},
		Verify: VerifyConfig{
			Jobs:      runtime.NumCPU(),
			StateFile: ".gbgraph-state.json",
		},
	}
}

// Load builds the configuration. An empty path reads DefaultFile if it
// exists; a named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		file = DefaultFile
	}
	if _, err := toml.DecodeFile(file, cfg); err != nil {
		if path != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not decode TOML config %s: %w", file, err)
		}
	}

	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg.Env = getEnv("GBGRAPH_ENV", cfg.Env)
	cfg.Log.File = getEnv("GBGRAPH_LOG_FILE", cfg.Log.File)
	cfg.Log.Level = getEnv("GBGRAPH_LOG_LEVEL", cfg.Log.Level)
	cfg.Verify.Jobs = getEnvInt("GBGRAPH_VERIFY_JOBS", cfg.Verify.Jobs)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	switch c.Env {
	case "development", "production":
	default:
		return fmt.Errorf("env must be development or production, got %q", c.Env)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Log.MaxSize < 0 || c.Log.MaxAge < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}
	if c.Verify.Jobs < 1 {
		return fmt.Errorf("verify jobs must be at least 1, got %d", c.Verify.Jobs)
	}
	if c.Verify.StateFile == "" {
		return fmt.Errorf("verify state file is required")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}
