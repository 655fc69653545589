package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Load resolves the configuration: defaults, then the JSON file at path
// (skipped when path is empty or the file does not exist), then WAVESTORM_*
// environment variables. The result is validated before being returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyFile overlays values from a JSON config file onto cfg.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: %s is not valid JSON", ErrInvalidConfig, path)
	}

	if v := gjson.GetBytes(data, "session.name"); v.Exists() {
		cfg.Session.Name = v.String()
	}
	if v := gjson.GetBytes(data, "engine.history.maxEntries"); v.Exists() {
		cfg.Engine.History.MaxEntries = int(v.Int())
	}
	if v := gjson.GetBytes(data, "logging.level"); v.Exists() {
		cfg.Logging.Level = v.String()
	}
	if v := gjson.GetBytes(data, "logging.file"); v.Exists() {
		cfg.Logging.File = v.String()
	}
	return nil
}

// envMapping maps environment variables to the fields they override.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("WAVESTORM_SESSION_NAME"); ok {
		cfg.Session.Name = v
	}
	if v, ok := os.LookupEnv("WAVESTORM_HISTORY_MAX"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.History.MaxEntries = n
		}
	}
	if v, ok := os.LookupEnv("WAVESTORM_LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := os.LookupEnv("WAVESTORM_LOG_FILE"); ok {
		cfg.Logging.File = v
	}
}

// WriteDefault writes the built-in configuration to path as indented JSON,
// giving users a starting point to edit.
func WriteDefault(path string) error {
	cfg := Default()

	data := []byte("{}")
	var err error
	for _, kv := range []struct {
		key   string
		value any
	}{
		{"session.name", cfg.Session.Name},
		{"engine.history.maxEntries", cfg.Engine.History.MaxEntries},
		{"logging.level", cfg.Logging.Level},
		{"logging.file", cfg.Logging.File},
	} {
		data, err = sjson.SetBytes(data, kv.key, kv.value)
		if err != nil {
			return fmt.Errorf("build default config: %w", err)
		}
	}

	pretty := gjson.GetBytes(data, "@pretty").Raw
	if err := os.WriteFile(path, []byte(pretty), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
