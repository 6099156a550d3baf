package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit the configuration",
	Long:  `Show the effective configuration, change a single key, or print the config file location.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), app.config)
		}
		printConfig(cmd.OutOrStdout(), app.config)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a configuration key",
	Long: `Change a configuration key and save the file. Keys:

  ` + strings.Join(config.Keys(), "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := app.config.Set(key, value); err != nil {
			if errors.Is(err, config.ErrUnknownKey) {
				return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.Keys(), ", "))
			}
			return err
		}
		if err := config.SaveTo(app.config, app.configPath); err != nil {
			return err
		}
		app.logger.Info("config changed", "key", key, "value", value)
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s = %s\n", key, value)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), app.configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func printConfig(w io.Writer, cfg *config.Config) {
	presets := make([]string, len(cfg.Timer.Presets))
	for i, p := range cfg.Timer.Presets {
		presets[i] = strconv.Itoa(p) + "m"
	}

	notifStatus := "off"
	if cfg.Notifications.Enabled {
		notifStatus = "on"
		if cfg.Notifications.Sound {
			notifStatus = "on (with sound)"
		}
	}

	fmt.Fprintln(w, "  Timer:")
	fmt.Fprintf(w, "    Work:                  %s\n", cfg.Timer.WorkDuration)
	fmt.Fprintf(w, "    Short break:           %s\n", cfg.Timer.ShortBreak)
	fmt.Fprintf(w, "    Long break:            %s\n", cfg.Timer.LongBreak)
	fmt.Fprintf(w, "    Long break every:      %d sessions\n", cfg.Timer.LongBreakInterval)
	fmt.Fprintf(w, "    Auto-start breaks:     %v\n", cfg.Timer.AutoStartBreaks)
	fmt.Fprintf(w, "    Auto-start work:       %v\n", cfg.Timer.AutoStartWork)
	fmt.Fprintf(w, "    Presets:               %s\n", strings.Join(presets, ", "))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Notifications:           %s\n", notifStatus)
	fmt.Fprintf(w, "  Data directory:          %s\n", cfg.Storage.DataDir)
	fmt.Fprintf(w, "  Log:                     %s (%s)\n", config.GetLogPath(cfg), cfg.Log.Level)
	fmt.Fprintf(w, "  MCP server:              %v\n", cfg.MCP.Enabled)
}
