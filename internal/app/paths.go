// Package app provides the application initialization and wiring.
package app

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultConfigDir returns the directory holding dockhand.toml and the session file.
// Uses $XDG_CONFIG_HOME/dockhand, ~/.dockhand as fallback.
func DefaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "dockhand")
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".dockhand")
	}
	return ".dockhand"
}

// ConfigureViper sets up viper with standard config file search paths.
// Config file: dockhand.toml (or .yaml)
// Search paths (in order): current directory, ~/.config/dockhand
func ConfigureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.SetConfigName("dockhand")
	v.AddConfigPath(".")
	v.AddConfigPath(DefaultConfigDir())
}
