// Package config defines the Wavestorm configuration schema and its JSON
// file loading, environment overrides, and validation.
//
// Configuration is resolved in three layers, later layers winning:
// built-in defaults, the JSON config file, then WAVESTORM_* environment
// variables. Live reloading is not provided here; callers re-run Load when
// they want fresh values.
package config
