package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/services"
)

var (
	addTags        string
	addPriority    string
	addCategory    string
	addEstimate    int
	addDescription string
)

// addCmd represents the task add command
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long:  `Add a new task to the focus task list.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := services.AddTaskRequest{
			Title:            strings.Join(args, " "),
			Description:      addDescription,
			Priority:         addPriority,
			Category:         addCategory,
			EstimatedMinutes: addEstimate,
			Tags:             splitList(addTags),
		}

		task, err := app.tasks.AddTask(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), taskData(task))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task added: %s (ID: %s)\n", task.Title, domain.ShortID(task.ID))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addTags, "tags", "t", "", "Comma-separated tags for the task")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "Priority: low, medium or high")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category of the task")
	addCmd.Flags().IntVarP(&addEstimate, "estimate", "e", 0, "Estimated focus time in minutes")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Longer description")
}
