// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New(ctx) builds a Config holding the defaults.
// - Load(ctx) layers .env, an optional YAML file and TALKER_ env vars on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects json or console output.
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr" validate:"required"`

	// StorePath is the JSON file holding the talker records.
	StorePath string `koanf:"store_path" validate:"required"`

	// WriteQueueSize bounds the number of mutations waiting for the writer.
	WriteQueueSize int `koanf:"write_queue_size" validate:"min=1"`

	// StrictUpdate answers 404 when PUT /talker/{id} names an unknown id.
	StrictUpdate bool `koanf:"strict_update"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms" validate:"min=0"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "json",
		Addr:              ":3000",
		StorePath:         "talker.json",
		WriteQueueSize:    64,
		StrictUpdate:      false,
		ShutdownTimeoutMS: 30_000,
	}
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
