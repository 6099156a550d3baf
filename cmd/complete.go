package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// completeCmd represents the task done command
var completeCmd = &cobra.Command{
	Use:     "done [task-id]",
	Aliases: []string{"complete"},
	Short:   "Mark a task as completed",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := app.tasks.CompleteTask(cmd.Context(), args[0])
		if err != nil {
			return taskError(args[0], err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), taskData(task))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task completed: %s (focus time %s)\n", task.Title, formatMinutes(task.FocusTime()))
		return nil
	},
}
