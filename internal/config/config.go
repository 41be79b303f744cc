// Package config loads runtime settings from the environment.
//
// Variables carry the QAFORUM_ prefix and use a double underscore to nest,
// e.g. QAFORUM_DATABASE__MAX_OPEN_CONNS maps to database.max_open_conns.
// A .env file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "QAFORUM_"

type Config struct {
	Primary  Primary        `koanf:"primary" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Logging  LoggingConfig  `koanf:"logging" validate:"required"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development production"`
}

// DatabaseConfig describes the SQLite file and its pool. MaxOpenConns of 1
// serializes all access over a single connection.
type DatabaseConfig struct {
	Path         string        `koanf:"path" validate:"required"`
	MaxOpenConns int           `koanf:"max_open_conns" validate:"min=1"`
	BusyTimeout  time.Duration `koanf:"busy_timeout"`
	ForeignKeys  bool          `koanf:"foreign_keys"`
}

type LoggingConfig struct {
	Level              string        `koanf:"level" validate:"required,oneof=debug info warn error"`
	Format             string        `koanf:"format" validate:"required,oneof=console json"`
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

func Default() *Config {
	return &Config{
		Primary: Primary{Env: "local"},
		Database: DatabaseConfig{
			Path:         "qaforum.db",
			MaxOpenConns: 1,
			BusyTimeout:  5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:              "info",
			Format:             "console",
			SlowQueryThreshold: 100 * time.Millisecond,
		},
	}
}

// Load reads the environment over Default and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

// Validate checks struct tags and the rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database busy_timeout must be non-negative")
	}
	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	}
	return nil
}

// TraceSQL reports whether every statement should be logged.
func (c *Config) TraceSQL() bool {
	return c.Primary.Env == "local" || c.Logging.Level == "debug"
}
