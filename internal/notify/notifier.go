package notify

import "context"

// Notifier defines the interface for delivering a rendered notification to
// a recipient. This abstraction allows swapping the log-only notifier with
// a real mail provider without refactoring.
type Notifier interface {
	Send(ctx context.Context, to, subject, html string) error
}
