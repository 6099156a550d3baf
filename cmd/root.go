// Package cmd provides the CLI commands for the focus application.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/services"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	configPath string
	jsonOutput bool

	// Root flags
	rootTaskID string
	rootPreset int
	inlineMode bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "focus",
	Short: "focus - A Pomodoro timer with tasks, goals and statistics",
	Long: `focus is a terminal Pomodoro timer. Work sessions alternate with
short breaks, and every few sessions with a long break. Completed
sessions are logged and can be linked to tasks.

Run "focus" with no arguments to open the interactive timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_ = cleanupServices()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: <data_dir>/focus.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.focus/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	rootCmd.Flags().StringVarP(&rootTaskID, "task", "t", "", "Task to link completed sessions to")
	rootCmd.Flags().IntVarP(&rootPreset, "preset", "p", 0, "Length of the first session in minutes")
	rootCmd.Flags().BoolVarP(&inlineMode, "inline", "i", false, "Compact inline timer (no fullscreen)")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("focus\nVersion: {{.Version}}\n")
}

// newSessionTimer builds the engine from config and applies the preset
// and task flags shared by the interactive and headless timers.
func newSessionTimer(ctx context.Context, preset int, taskID string) (*domain.SessionTimer, *domain.Task, error) {
	if preset != 0 {
		if err := domain.ValidatePreset(preset); err != nil {
			return nil, nil, err
		}
	}

	timer := domain.NewSessionTimer(app.config.TimerConfig())
	timer.SetPreset(preset)

	if taskID == "" {
		return timer, nil, nil
	}
	task, err := app.tasks.StartTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, nil, fmt.Errorf("task not found: %s", taskID)
		}
		return nil, nil, err
	}
	timer.SetActiveTask(task.Ref())
	return timer, task, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler(cmd.Context())
	defer cancel()

	timer, _, err := newSessionTimer(ctx, rootPreset, rootTaskID)
	if err != nil {
		return err
	}

	app.logger.Info("tui started", "inline", inlineMode)
	final, err := tui.Run(ctx, tui.Options{
		Timer:   timer,
		Theme:   &app.config.Theme,
		Presets: app.config.Timer.Presets,
		Inline:  inlineMode,
		Record: func(ev domain.SessionComplete) error {
			_, err := app.recorder.Record(ctx, ev)
			return err
		},
		FetchState: func() (*domain.CurrentState, error) {
			return app.state.GetCurrentState(ctx)
		},
		ListTasks: func() ([]*domain.Task, error) {
			return app.tasks.ListTasks(ctx, services.ListTasksRequest{Filter: domain.FilterPending})
		},
		LoadConfig: func() (*config.Config, error) {
			return config.LoadFrom(app.configPath)
		},
		Logger: app.logger,
	})
	if err != nil {
		return err
	}

	state := final.State()
	app.logger.Info("tui exited", "completed_work_sessions", state.CompletedWorkSessions)
	return nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
