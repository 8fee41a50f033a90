package cmd

import (
	"fmt"

	"github.com/cipherboard/cipherboard/internal/configs"
	"github.com/cipherboard/cipherboard/internal/ui"
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change cipherboard settings",
	Long: `Reads and writes ~/.config/cipherboard/config.toml.

Settings:
  data_dir         where the store, audit log and metrics live
  session_timeout  how long a login stays valid, e.g. 30m
  metrics_file     where operation counters are kept between runs

CIPHERBOARD_DATA_DIR and CIPHERBOARD_SESSION_TIMEOUT override the file.

Examples:
  cipherboard config show
  cipherboard config set session_timeout 15m`,
}

func init() {
	addLoggingFlags(ConfigCmd)
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configSetCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Debugf("Loading config from %s", configs.UserSettings.ConfigFile())
		config, err := configs.LoadClientConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %w", err)
		}

		fmt.Println(ui.Info.Sprint("Configuration") + " " + ui.Muted.Sprint(configs.UserSettings.ConfigFile()) + ":")
		fmt.Println()
		for _, key := range configs.Keys() {
			value, _ := config.Get(key)
			fmt.Printf("  %-16s %s\n", key+":", ui.Path.Sprint(value))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := configs.LoadClientConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %w", err)
		}
		if err := config.Set(args[0], args[1]); err != nil {
			fmt.Println(ui.Error.Sprint("✗") + " " + err.Error())
			fmt.Println(ui.Info.Sprint("→") + " Valid keys:\n" + ui.Bullets(configs.Keys()))
			return nil
		}
		if err := configs.SaveClientConfig(config); err != nil {
			return Logger.ErrorfAndReturn("Failed to save config: %w", err)
		}
		Logger.Infof("Saved %s", configs.UserSettings.ConfigFile())
		fmt.Println(ui.Success.Sprint("✓") + " Set " + ui.Code.Sprint(args[0]) + " to " + ui.Path.Sprint(args[1]))
		return nil
	},
}
