// Package notification provides desktop notifications for completed sessions.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg    config.NotificationConfig
	notify func(title, message string) error
	beep   func() error
}

var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg config.NotificationConfig) *Notifier {
	beeep.AppName = "focus"
	return &Notifier{
		cfg: cfg,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
	}
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg.Enabled
}

// NotifySessionComplete shows a notification for a finished session and
// beeps when sound is enabled.
func (n *Notifier) NotifySessionComplete(ev domain.SessionComplete) error {
	if !n.cfg.Enabled {
		return nil
	}

	title, message := Message(ev)
	if err := n.notify(title, message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if n.cfg.Sound {
		if err := n.beep(); err != nil {
			return fmt.Errorf("failed to beep: %w", err)
		}
	}
	return nil
}

// Message builds the notification title and body for ev.
func Message(ev domain.SessionComplete) (string, string) {
	title := domain.CompletionTitle(ev.Type)

	var message string
	if ev.Type == domain.SessionTypeWork {
		message = fmt.Sprintf("You focused for %s.", ev.Duration())
		if ev.Task != nil {
			message = fmt.Sprintf("You focused on %q for %s.", ev.Task.Title, ev.Duration())
		}
	} else {
		message = fmt.Sprintf("Your %s is over. Ready to focus?", domain.GetSessionTypeLabel(ev.Type))
	}
	return title, message + " " + domain.NextActionLabel(ev.Type) + " when ready."
}
