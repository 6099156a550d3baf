package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/notification"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
	"github.com/xvierd/focus-cli/internal/services"
)

var (
	runPreset int
	runTaskID string
	runCycles int
)

// runCmd runs the timer without the interactive UI.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the timer without the interactive UI",
	Long: `Run sessions back to back, printing progress. Each completed session is
logged and the next one starts automatically. Stops after --cycles
sessions, or on Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runCycles < 0 {
			return fmt.Errorf("cycles must not be negative, got %d", runCycles)
		}

		ctx, cancel := setupSignalHandler(cmd.Context())
		defer cancel()

		timer, task, err := newSessionTimer(ctx, runPreset, runTaskID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		live := false
		if f, ok := out.(*os.File); ok {
			live = term.IsTerminal(f.Fd())
		}

		runner := services.NewTimerRunner(timer, app.clock, app.logger)
		var progress <-chan domain.TimerSnapshot
		if live {
			progress = liveProgress(runner)
		}

		go func() {
			_ = runner.Run(ctx)
		}()

		if task != nil {
			fmt.Fprintf(out, "📋 Task: %s\n", task.Title)
		}
		err = runSessions(ctx, out, runner, runCycles, progress)
		cancel()
		<-runner.Done()
		return err
	},
}

func init() {
	runCmd.Flags().IntVarP(&runPreset, "preset", "p", 0, "Length of the first session in minutes")
	runCmd.Flags().StringVarP(&runTaskID, "task", "t", "", "Task to link completed sessions to")
	runCmd.Flags().IntVarP(&runCycles, "cycles", "n", 0, "Stop after this many sessions (0 runs until interrupted)")
	rootCmd.AddCommand(runCmd)
}

// liveProgress forwards tick snapshots from the runner goroutine. When the
// reader falls behind, stale snapshots are dropped.
func liveProgress(runner *services.TimerRunner) <-chan domain.TimerSnapshot {
	ch := make(chan domain.TimerSnapshot, 1)
	runner.OnTick(func(snap domain.TimerSnapshot) {
		select {
		case ch <- snap:
		default:
		}
	})
	return ch
}

// runSessions starts the timer and keeps it going until cycles sessions
// have completed or ctx is done. Completions are recorded as they arrive.
// All writes to out happen here; progress may be nil.
func runSessions(ctx context.Context, out io.Writer, runner *services.TimerRunner, cycles int, progress <-chan domain.TimerSnapshot) error {
	snap, err := runner.Apply(ctx, ports.CmdStart)
	if err != nil {
		return err
	}
	printSessionStart(out, snap)

	completed := 0
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case snap := <-progress:
			if snap.Running {
				fmt.Fprintf(out, "\r%s", progressLine(snap))
			}
		case ev, ok := <-runner.Events():
			if !ok {
				return nil
			}

			title, message := notification.Message(ev)
			fmt.Fprintf(out, "\r✅ %s %s\n", title, message)
			if _, err := app.recorder.Record(ctx, ev); err != nil {
				app.logger.Error("failed to record session", "error", err)
				fmt.Fprintf(out, "⚠️  failed to record session: %v\n", err)
			}

			completed++
			if cycles > 0 && completed >= cycles {
				return nil
			}

			snap, err := runner.Apply(ctx, ports.CmdAcknowledge)
			if err != nil {
				return contextError(ctx, err)
			}
			if !snap.Running {
				if snap, err = runner.Apply(ctx, ports.CmdStart); err != nil {
					return contextError(ctx, err)
				}
			}
			printSessionStart(out, snap)
		}
	}
}

// contextError hides the runner shutting down under an interrupted context.
func contextError(ctx context.Context, err error) error {
	if ctx.Err() != nil && (errors.Is(err, domain.ErrRunnerClosed) || errors.Is(err, context.Canceled)) {
		return nil
	}
	return err
}

func printSessionStart(w io.Writer, snap domain.TimerSnapshot) {
	fmt.Fprintf(w, "🍅 %s started (%s)\n", domain.GetSessionTypeLabel(snap.Type), formatClock(snap.TotalSeconds))
}

// progressLine renders the single line redrawn on every tick.
func progressLine(snap domain.TimerSnapshot) string {
	const width = 20
	filled := int(snap.Progress * width)
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	line := fmt.Sprintf("%s %s %s %3.0f%%", domain.GetSessionTypeLabel(snap.Type), formatClock(snap.RemainingSeconds), bar, snap.Progress*100)
	if snap.Task != nil {
		line += "  " + snap.Task.Title
	}
	return line
}

// formatClock renders seconds as MM:SS.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
