package config

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the hotstringd configuration directory, honoring
// XDG_CONFIG_HOME when it is set to an absolute path.
func ConfigDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); filepath.IsAbs(v) {
		return filepath.Join(v, "hotstringd")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "hotstringd")
}

// DataDir returns the hotstringd data directory, honoring XDG_DATA_HOME
// when it is set to an absolute path.
func DataDir() string {
	if v := os.Getenv("XDG_DATA_HOME"); filepath.IsAbs(v) {
		return filepath.Join(v, "hotstringd")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", "hotstringd")
}

// DefaultConfigPath returns the default daemon configuration file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}
