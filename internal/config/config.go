// Package config provides hierarchical configuration management for chlog using koanf.
// Configuration is loaded with priority: environment variables (including a .env file)
// > project config (.chlog.yml, or legacy .chlog.json) > user config
// (~/.config/chlog/config.yml) > defaults. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "CHLOG_"

// Configuration represents the chlog CLI configuration
type Configuration struct {
	// Input is the changelog to consolidate. Can be set via CHLOG_INPUT.
	Input string `koanf:"input" yaml:"input" validate:"required"`
	// Output is the consolidated file, overwritten on every run. Can be set via CHLOG_OUTPUT.
	Output string `koanf:"output" yaml:"output" validate:"required"`
	// LenientDates keeps entries whose heading date is impossible (e.g. 2024-02-31)
	// unconsolidated instead of aborting the run.
	LenientDates bool `koanf:"lenient_dates" yaml:"lenient_dates"`
	// Plain disables colors and icons.
	Plain bool `koanf:"plain" yaml:"plain"`
	// Discover looks for changelog.md and the repository root's changelog
	// when Input does not exist. Off by default.
	Discover bool `koanf:"discover" yaml:"discover"`
	// BatchParallel bounds how many files 'chlog batch' consolidates at once.
	BatchParallel int `koanf:"batch_parallel" yaml:"batch_parallel" validate:"min=1,max=64"`
	// WatchDebounce is the quiet period 'chlog watch' waits for after a change.
	WatchDebounce time.Duration `koanf:"watch_debounce" yaml:"watch_debounce"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .chlog.yml)
	ProjectConfigPath string
	// DotEnvPath overrides the dotenv file (default: .env). Missing files are ignored.
	DotEnvPath string
	// SkipUserConfig ignores the user-level config file
	SkipUserConfig bool
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadDotEnv(k, opts.DotEnvPath); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads ~/.config/chlog/config.yml when it exists.
func loadUserConfig(k *koanf.Koanf) error {
	userPath, err := UserConfigPath()
	if err != nil || !fileExists(userPath) {
		return nil
	}
	if err := loadYAMLConfig(k, userPath, "user"); err != nil {
		return fmt.Errorf("loading user YAML config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project config. An explicit path must exist;
// the default path is optional and falls back to legacy JSON.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	if customPath != "" {
		if !fileExists(customPath) {
			return fmt.Errorf("config file %s: %w", customPath, fs.ErrNotExist)
		}
		return loadConfigFile(k, customPath, "project")
	}

	yamlPath := ProjectConfigPath()
	legacyPath := LegacyProjectConfigPath()
	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		if legacyExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: %s found alongside %s (ignored)\n\n", legacyPath, yamlPath)
		}
	case legacyExists:
		if err := loadJSONConfig(k, legacyPath, "project"); err != nil {
			return fmt.Errorf("loading project JSON config: %w", err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using JSON config at %s; YAML (%s) is preferred\n\n", legacyPath, yamlPath)
		}
	}
	return nil
}

// loadConfigFile picks the parser from the file extension.
func loadConfigFile(k *koanf.Koanf, path, configType string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadJSONConfig(k, path, configType)
	}
	return loadYAMLConfig(k, path, configType)
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadJSONConfig loads a JSON config file
func loadJSONConfig(k *koanf.Koanf, path, configType string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadDotEnv applies CHLOG_* entries of a dotenv file without touching the
// process environment, so real environment variables still take priority.
func loadDotEnv(k *koanf.Koanf, path string) error {
	if path == "" {
		path = DotEnvPath()
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	for name, value := range values {
		if strings.HasPrefix(name, EnvPrefix) {
			k.Set(envTransform(name), value)
		}
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Input = expandHomePath(cfg.Input)
	cfg.Output = expandHomePath(cfg.Output)

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: CHLOG_BATCH_PARALLEL -> batch_parallel
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// envName is the inverse of envTransform.
func envName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
