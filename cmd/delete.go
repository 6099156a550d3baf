package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

var deleteYes bool

// deleteCmd represents the task rm command
var deleteCmd = &cobra.Command{
	Use:     "rm [task-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Long:    `Delete a task by its ID. Logged sessions are kept but no longer linked to it.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		task, err := app.tasks.GetTask(ctx, args[0])
		if err != nil {
			return taskError(args[0], err)
		}

		if !deleteYes && !jsonOutput {
			fmt.Fprintf(out, "Are you sure you want to delete task '%s' (%s)? [y/N]: ", task.Title, domain.ShortID(task.ID))
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Fprintln(out, "Deletion cancelled.")
				return nil
			}
		}

		if err := app.tasks.DeleteTask(ctx, task.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		if jsonOutput {
			return printJSON(out, map[string]interface{}{"deleted": true, "task_id": task.ID})
		}
		fmt.Fprintf(out, "🗑️  Task '%s' deleted.\n", task.Title)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking for confirmation")
}
