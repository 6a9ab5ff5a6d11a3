// Package config loads the report configuration from viper: config file,
// AGEING_* environment variables and bound command line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the configuration directory and environment prefix.
const AppName = "ageing"

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}

// Dir returns the configuration directory, ~/.config/ageing.
func Dir() string {
	return ExpandPath(filepath.Join("~", ".config", AppName))
}
