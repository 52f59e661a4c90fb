package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// StaleMinutesEnv overrides session.stale_minutes.
const StaleMinutesEnv = "SCORECARD_STALE_MINUTES"

// Load loads the configuration and applies environment overrides.
// Search order: customPath -> ~/.scorecard/config.yaml -> ./configs/config.yaml -> embedded default
//
// Out-of-range values are corrected with a warning on logger rather than
// rejected.
func Load(customPath string, logger *log.Logger) (Config, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	cfg, err := read(customPath)
	if err != nil {
		return cfg, err
	}

	if v, ok := os.LookupEnv(StaleMinutesEnv); ok {
		applyStaleEnv(&cfg, v, logger)
	}
	cfg.Normalize(logger)
	return cfg, nil
}

func read(customPath string) (Config, error) {
	cfg := DefaultConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := UserPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "config.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func applyStaleEnv(cfg *Config, value string, logger *log.Logger) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		logger.Warn("invalid stale minutes, using default",
			"env", StaleMinutesEnv, "value", value, "default", DefaultStaleMinutes)
		cfg.Session.StaleMinutes = DefaultStaleMinutes
		return
	}
	cfg.Session.StaleMinutes = n
}

// Normalize clamps values into their supported ranges.
func (c *Config) Normalize(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	switch m := c.Session.StaleMinutes; {
	case m < MinStaleMinutes:
		logger.Warn("stale minutes below minimum, clamping", "value", m, "min", MinStaleMinutes)
		c.Session.StaleMinutes = MinStaleMinutes
	case m > MaxStaleMinutes:
		logger.Warn("stale minutes above maximum, clamping", "value", m, "max", MaxStaleMinutes)
		c.Session.StaleMinutes = MaxStaleMinutes
	}

	if c.Session.ReapInterval <= 0 {
		c.Session.ReapInterval = DefaultReapInterval
	}
	if c.Opaque.MaxBytes <= 0 {
		c.Opaque.MaxBytes = DefaultMaxOpaqueBytes
	}
}

// LogLevel parses the configured log level, defaulting to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// UserPath returns the path of filename in the user's scorecard directory,
// or empty if home is unavailable.
func UserPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".scorecard", filename)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
