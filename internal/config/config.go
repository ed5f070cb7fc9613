// Package config loads bootstrap configuration for the bot process.
//
// Configuration comes from an optional YAML file with environment
// overrides; the Discord token is usually supplied via the environment
// and never belongs in the file checked into a repo.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvToken is the environment variable carrying the Discord bot token.
// It overrides any token present in the config file.
const EnvToken = "INCYDECY_DISCORD_TOKEN"

// Config holds everything the process needs to start.
type Config struct {
	// Database is the path to the SQLite ledger file.
	Database string `yaml:"database"`

	Discord struct {
		// Token authenticates the gateway connection.
		Token string `yaml:"token"`
	} `yaml:"discord"`

	Log struct {
		// Level is one of debug, info, warn, error.
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.Database = "incydecy.db"
	c.Log.Level = "info"
	return c
}

// Load reads the YAML file at path (skipped when path is empty), then
// applies environment overrides. Unknown YAML keys are rejected so typos
// fail loudly at startup.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if token := os.Getenv(EnvToken); token != "" {
		c.Discord.Token = token
	}

	return c, nil
}

// Validate reports the startup-fatal conditions: missing database path or
// missing credentials.
func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Discord.Token == "" {
		return fmt.Errorf("discord token is required (set %s)", EnvToken)
	}
	return nil
}

// LogLevel maps the configured level name onto slog. Unknown names fall
// back to info.
func (c Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
