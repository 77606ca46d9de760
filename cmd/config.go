package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/cli/handlers"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for tally.

Shows the configuration file location, whether it exists, and all current settings.
Configuration values are merged from the config file with sensible defaults.

By default, tally works without any configuration file. All settings have defaults:
  - user_id: 1
  - timezone: Local (system timezone)
  - week_start_day: monday
  - deviation_threshold: 0.1
  - log_level: info

Configuration file location:
  ~/.config/tally/config.toml          Linux
  %APPDATA%\tally\config.toml          Windows

Run 'tally config init' to write a commented sample file.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(_ context.Context, d *cli.Deps) {
			handlers.ShowConfig(d)
		})
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(_ context.Context, d *cli.Deps) {
			handlers.InitConfig(d)
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}
