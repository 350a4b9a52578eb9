// Package config handles configuration loading, validation, and defaults
// for hotstringd.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete daemon configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Definitions locates and identifies the hotstring definitions file.
	Definitions DefinitionsConfig `toml:"definitions" json:"definitions" yaml:"definitions"`

	// Input configures keystroke capture.
	Input InputConfig `toml:"input" json:"input" yaml:"input"`

	// Output configures keystroke synthesis.
	Output OutputConfig `toml:"output" json:"output" yaml:"output"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// Notifications configures desktop notifications.
	Notifications NotificationsConfig `toml:"notifications" json:"notifications" yaml:"notifications"`

	// Stats configures the expansion statistics store.
	Stats StatsConfig `toml:"stats" json:"stats" yaml:"stats"`
}

// DefinitionsConfig locates the hotstring definitions.
type DefinitionsConfig struct {
	// Path is the definitions file.
	Path string `toml:"path" json:"path" yaml:"path"`

	// Format is "ahk", "json", or "auto" (decide by file extension).
	Format string `toml:"format" json:"format" yaml:"format"`

	// Watch reloads the definitions when the file changes.
	Watch bool `toml:"watch" json:"watch" yaml:"watch"`
}

// InputConfig configures keystroke capture.
type InputConfig struct {
	// Device pins capture to one input device (e.g. /dev/input/event3).
	// Empty means discover all keyboards.
	Device string `toml:"device" json:"device" yaml:"device"`
}

// OutputConfig configures keystroke synthesis.
type OutputConfig struct {
	// KeyDelayMs is the pause between synthesized keystrokes in
	// milliseconds. Some toolkits drop events typed with no delay.
	KeyDelayMs int `toml:"key_delay_ms" json:"key_delay_ms" yaml:"key_delay_ms"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is "stdout", "stderr", "file", or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file when Output includes "file".
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// NotificationsConfig configures desktop notifications.
type NotificationsConfig struct {
	// Enabled sends reload results and action failures to the desktop
	// notification service.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`
}

// StatsConfig configures the expansion statistics store.
type StatsConfig struct {
	// Enabled records per-hotstring expansion counts.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: Version,
		Definitions: DefinitionsConfig{
			Path:   filepath.Join(ConfigDir(), "hotstrings.json"),
			Format: "auto",
			Watch:  true,
		},
		Output: OutputConfig{
			KeyDelayMs: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Notifications: NotificationsConfig{
			Enabled: true,
		},
		Stats: StatsConfig{
			Enabled: false,
			Path:    filepath.Join(DataDir(), "stats.db"),
		},
	}
}

// Load reads, validates, and normalizes a configuration file. The format is
// chosen by extension: .json and .yaml/.yml are accepted, anything else is
// parsed as TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides lets the environment override path-like settings, which
// keeps service files free of machine-specific paths.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("HOTSTRINGD_DEFINITIONS"); v != "" {
		c.Definitions.Path = v
	}
	if v := os.Getenv("HOTSTRINGD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("HOTSTRINGD_INPUT_DEVICE"); v != "" {
		c.Input.Device = v
	}
}
