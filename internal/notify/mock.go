package notify

import (
	"context"
	"log"
)

// LogNotifier implements the Notifier interface by logging messages to
// stdout. Used when no mail provider is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, html string) error {
	log.Printf("📨 [Dev Mode] Notification to %s — %s", to, subject)
	return nil
}
