// Package notify mirrors toasts to desktop notifications.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// Notifier sends desktop notifications. The zero value is disabled.
type Notifier struct {
	enabled bool
	appName string
	logger  *slog.Logger

	// send is swapped in tests.
	send func(title, message string, isError bool) error
}

// New returns a notifier. When enabled is false, Send does nothing.
func New(enabled bool, appName string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{enabled: enabled, appName: appName, logger: logger, send: beeepSend}
}

func beeepSend(title, message string, isError bool) error {
	if isError {
		return beeep.Alert(title, message, "")
	}
	return beeep.Notify(title, message, "")
}

// Enabled reports whether notifications are sent.
func (n *Notifier) Enabled() bool {
	return n != nil && n.enabled
}

// Send posts a notification. Failures are logged, never returned, since a
// missing notification daemon must not break the caller.
func (n *Notifier) Send(message string, isError bool) {
	if !n.Enabled() || message == "" {
		return
	}
	if err := n.send(n.appName, message, isError); err != nil {
		n.logger.Debug("desktop notification failed", "err", err)
	}
}
