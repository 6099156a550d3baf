package ports

import "github.com/xvierd/focus-cli/internal/domain"

// Notifier tells the user a session has ended. Delivery is best-effort.
type Notifier interface {
	NotifySessionComplete(event domain.SessionComplete) error
}
