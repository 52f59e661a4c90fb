// Package config provides YAML-based configuration loading for the
// scorecard engine and its command-line front end.
package config

import "time"

// Config contains all process configuration.
type Config struct {
	Session SessionConfig `yaml:"session"`
	Opaque  OpaqueConfig  `yaml:"opaque"`
	Storage StorageConfig `yaml:"storage"`
	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log"`
}

// SessionConfig controls scorecard lifetime.
type SessionConfig struct {
	StaleMinutes int           `yaml:"stale_minutes"` // Inactivity before a scorecard is reaped
	ReapInterval time.Duration `yaml:"reap_interval"` // How often the reaper runs
}

// StaleThreshold returns StaleMinutes as a duration.
func (s SessionConfig) StaleThreshold() time.Duration {
	return time.Duration(s.StaleMinutes) * time.Minute
}

// OpaqueConfig bounds client-supplied opaque payloads.
type OpaqueConfig struct {
	MaxBytes int `yaml:"max_bytes"`
}

// StorageConfig selects the archive for closed scorecards.
// Empty DSN disables archiving.
type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

// CatalogConfig points at the game catalog file.
// Empty path uses the catalog search order.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// LogConfig sets the log level (debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level"`
}
