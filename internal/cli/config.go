package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/chlog/internal/config"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configInitUserFlag  bool
	configInitForceFlag bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage chlog configuration",
	Long: `Manage chlog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CHLOG_*, including a .env file)
  3. Project config (.chlog.yml, or legacy .chlog.json)
  4. User config (~/.config/chlog/config.yml)
  5. Built-in defaults`,
	Example: `  # Show the effective configuration
  chlog config show

  # List every key with its environment variable
  chlog config keys

  # Write a commented project config
  chlog config init`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Long: `Write a config file documenting every option with its default.

By default the project config (.chlog.yml) is created. Use --user for the
user config, which applies to every project. An existing file is left
unchanged unless --force is given.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := config.ProjectConfigPath()
		if configInitUserFlag {
			userPath, err := config.UserConfigPath()
			if err != nil {
				return fmt.Errorf("locating user config: %w", err)
			}
			path = userPath
		}
		return runConfigInit(cmd.OutOrStdout(), path, configInitForceFlag)
	},
}

var configShowCmd = &cobra.Command{
	Use:           "show",
	Short:         "Show the effective configuration",
	Long:          "Show the configuration after merging every source, including flags, as YAML.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		return runConfigShow(cmd.OutOrStdout(), s)
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys [key]",
	Short: "List configuration keys",
	Long: `List every configuration key with its type, environment variable,
description and default. With a key, only that key is shown.`,
	Example: `  chlog config keys
  chlog config keys batch_parallel`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			printConfigKeys(cmd.OutOrStdout(), config.SortedKeys())
			return nil
		}
		key, err := config.GetKeySchema(args[0])
		if err != nil {
			return clierrors.NewArgumentError(err.Error(), "Run 'chlog config keys' to list valid keys")
		}
		printConfigKeys(cmd.OutOrStdout(), []config.ConfigKeySchema{key})
		return nil
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configKeysCmd)

	configInitCmd.Flags().BoolVarP(&configInitUserFlag, "user", "u", false, "Create the user config instead of .chlog.yml")
	configInitCmd.Flags().BoolVarP(&configInitForceFlag, "force", "f", false, "Overwrite an existing config file")
}

func runConfigInit(out io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "%s already exists, leaving it unchanged (use --force to overwrite)\n", path)
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	printSuccess(out, color.NoColor, fmt.Sprintf("Created %s", path))
	return nil
}

// effectiveConfig is what 'config show' prints. Durations are shown as
// strings so the output can be pasted back into a config file.
type effectiveConfig struct {
	Input         string `yaml:"input"`
	Output        string `yaml:"output"`
	LenientDates  bool   `yaml:"lenient_dates"`
	Plain         bool   `yaml:"plain"`
	Discover      bool   `yaml:"discover"`
	BatchParallel int    `yaml:"batch_parallel"`
	WatchDebounce string `yaml:"watch_debounce"`
}

func runConfigShow(out io.Writer, s *settings) error {
	view := effectiveConfig{
		Input:         s.input,
		Output:        s.output,
		LenientDates:  s.cfg.LenientDates,
		Plain:         s.cfg.Plain,
		Discover:      s.cfg.Discover,
		BatchParallel: s.cfg.BatchParallel,
		WatchDebounce: s.cfg.WatchDebounce.String(),
	}

	data, err := yaml.Marshal(view)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func printConfigKeys(out io.Writer, keys []config.ConfigKeySchema) {
	for _, key := range keys {
		fmt.Fprintf(out, "%-15s %-9s %-21s %s (default: %v)\n",
			key.Path, key.Type, key.EnvVar(), key.Description, key.Default)
	}
}
