package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by all validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root configuration for the application.
type Config struct {
	Session SessionConfig
	Engine  EngineConfig
	Logging LoggingConfig
}

// SessionConfig configures the edit session.
type SessionConfig struct {
	// Name is the display name for a new session.
	Name string
}

// EngineConfig configures the edit engine.
type EngineConfig struct {
	History HistoryConfig
}

// HistoryConfig configures the command history.
type HistoryConfig struct {
	// MaxEntries bounds the undo stack. Must be positive.
	MaxEntries int
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, or error.
	Level string

	// File is the log destination path; empty means stderr.
	File string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Session: SessionConfig{
			Name: "untitled",
		},
		Engine: EngineConfig{
			History: HistoryConfig{
				MaxEntries: 1000,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.Engine.History.MaxEntries <= 0 {
		return fmt.Errorf("%w: engine.history.maxEntries must be positive, got %d",
			ErrInvalidConfig, c.Engine.History.MaxEntries)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	if c.Session.Name == "" {
		return fmt.Errorf("%w: session.name cannot be empty", ErrInvalidConfig)
	}
	return nil
}
