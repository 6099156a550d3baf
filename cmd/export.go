package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the session log as CSV",
	Long:  "Export every completed session, oldest first, as CSV to stdout or a file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := app.stats.Records(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch sessions: %w", err)
		}

		if exportOutput == "" {
			return exportCSV(cmd.OutOrStdout(), records)
		}

		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOutput, err)
		}
		if err := exportCSV(f, records); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d sessions to %s\n", len(records), exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
}

var csvHeader = []string{
	"id", "completed_at", "type", "duration_min", "task_id", "task_title", "git_branch", "git_commit",
}

func exportCSV(w io.Writer, records []*domain.SessionRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	for _, r := range records {
		taskID := ""
		if r.TaskID != nil {
			taskID = *r.TaskID
		}
		row := []string{
			r.ID,
			r.CompletedAt.Format("2006-01-02T15:04:05"),
			string(r.Type),
			strconv.FormatFloat(r.Duration.Minutes(), 'f', -1, 64),
			taskID,
			r.TaskTitle,
			r.GitBranch,
			r.GitCommit,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
