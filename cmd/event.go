package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/services"
)

const eventTimeLayout = "2006-01-02 15:04"

var (
	eventAt        string
	eventDuration  time.Duration
	eventLocation  string
	eventAttendees int
	eventDate      string
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage calendar events",
	Long:  `Events are meetings and appointments shown next to your focus sessions.`,
}

var eventAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add an event",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseEventStart(eventAt, app.clock.Now())
		if err != nil {
			return err
		}

		event, err := app.events.AddEvent(cmd.Context(), services.AddEventRequest{
			Title:     strings.Join(args, " "),
			Start:     start,
			Duration:  eventDuration,
			Location:  eventLocation,
			Attendees: eventAttendees,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), eventData(event))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📅 Event added: %s (ID: %s)\n", tui.EventLine(event), domain.ShortID(event.ID))
		return nil
	},
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the events of a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		day := app.clock.Now()
		if eventDate != "" {
			var err error
			day, err = time.ParseInLocation("2006-01-02", eventDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid date %q: want YYYY-MM-DD", eventDate)
			}
		}

		events, err := app.events.EventsOn(cmd.Context(), day)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		out := cmd.OutOrStdout()

		if jsonOutput {
			list := make([]map[string]interface{}, 0, len(events))
			for _, e := range events {
				list = append(list, eventData(e))
			}
			return printJSON(out, map[string]interface{}{
				"date":   day.Format("2006-01-02"),
				"events": list,
				"count":  len(list),
			})
		}

		if len(events) == 0 {
			fmt.Fprintf(out, "No events on %s.\n", day.Format("2006-01-02"))
			return nil
		}
		for _, e := range events {
			fmt.Fprintf(out, "%s (ID: %s)\n", tui.EventLine(e), domain.ShortID(e.ID))
		}
		return nil
	},
}

var eventRmCmd = &cobra.Command{
	Use:     "rm [event-id]",
	Aliases: []string{"delete"},
	Short:   "Delete an event",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.events.DeleteEvent(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, domain.ErrEventNotFound) {
				return fmt.Errorf("event not found: %s", args[0])
			}
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"deleted": true, "event_id": args[0]})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "🗑️  Event deleted.")
		return nil
	},
}

func init() {
	eventAddCmd.Flags().StringVar(&eventAt, "at", "", `Start as "YYYY-MM-DD HH:MM" or "HH:MM" today (default now)`)
	eventAddCmd.Flags().DurationVarP(&eventDuration, "duration", "d", 30*time.Minute, "Length of the event")
	eventAddCmd.Flags().StringVarP(&eventLocation, "location", "l", "", "Where the event takes place")
	eventAddCmd.Flags().IntVarP(&eventAttendees, "attendees", "a", 0, "Number of attendees")
	eventListCmd.Flags().StringVar(&eventDate, "date", "", "Day to list as YYYY-MM-DD (default today)")

	eventCmd.AddCommand(eventAddCmd)
	eventCmd.AddCommand(eventListCmd)
	eventCmd.AddCommand(eventRmCmd)
	rootCmd.AddCommand(eventCmd)
}

// parseEventStart reads a local start time. A bare "HH:MM" is taken on the
// day of now, and an empty value means now.
func parseEventStart(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.Truncate(time.Minute), nil
	}
	if t, err := time.ParseInLocation(eventTimeLayout, value, time.Local); err == nil {
		return t, nil
	}
	clock, err := time.ParseInLocation("15:04", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start %q: want \"YYYY-MM-DD HH:MM\" or \"HH:MM\"", value)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, time.Local), nil
}

func eventData(e *domain.Event) map[string]interface{} {
	return map[string]interface{}{
		"id":        e.ID,
		"title":     e.Title,
		"location":  e.Location,
		"attendees": e.Attendees,
		"start":     e.Start.Format(time.RFC3339),
		"end":       e.End.Format(time.RFC3339),
		"minutes":   int(e.Duration().Minutes()),
	}
}
