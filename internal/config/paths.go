package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/chlog/config.yml
// - macOS: ~/Library/Application Support/chlog/config.yml
// - Windows: %APPDATA%\chlog\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "chlog", "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .chlog.yml relative to the current directory.
func ProjectConfigPath() string {
	return ".chlog.yml"
}

// LegacyProjectConfigPath returns the path to the JSON project config file.
// Still read when no YAML project config exists.
func LegacyProjectConfigPath() string {
	return ".chlog.json"
}

// DotEnvPath returns the default path of the dotenv file read before
// environment variables.
func DotEnvPath() string {
	return ".env"
}
