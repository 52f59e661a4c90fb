package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/config.yaml
var defaultConfigYAML []byte

// Limits of the stale threshold in minutes.
const (
	DefaultStaleMinutes = 15
	MinStaleMinutes     = 1
	MaxStaleMinutes     = 60
)

// DefaultReapInterval is how often idle scorecards are looked for.
const DefaultReapInterval = time.Minute

// DefaultMaxOpaqueBytes bounds the opaque payload of a scorecard.
const DefaultMaxOpaqueBytes = 8192

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			StaleMinutes: DefaultStaleMinutes,
			ReapInterval: DefaultReapInterval,
		},
		Opaque: OpaqueConfig{
			MaxBytes: DefaultMaxOpaqueBytes,
		},
		Storage: StorageConfig{
			DSN: "~/.scorecard/archive.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
