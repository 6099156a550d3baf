package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's totals",
	Long:  `Display today's completed sessions, focus time and upcoming events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := app.state.GetCurrentState(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get current state: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), statusData(state))
		}

		fmt.Fprint(cmd.OutOrStdout(), tui.ShowStatus(state))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusData(state *domain.CurrentState) map[string]interface{} {
	upcoming := make([]map[string]interface{}, 0, len(state.UpcomingEvents))
	for _, e := range state.UpcomingEvents {
		upcoming = append(upcoming, eventData(e))
	}
	return map[string]interface{}{
		"upcoming_events": upcoming,
		"today_stats": map[string]interface{}{
			"work_sessions": state.TodayStats.WorkSessions,
			"breaks_taken":  state.TodayStats.BreaksTaken,
			"focus_time":    state.TodayStats.FocusTime.String(),
		},
	}
}
