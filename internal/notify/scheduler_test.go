package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"squotato-backend/internal/models"
)

type fakePicker struct{}

func (fakePicker) Random(ctx context.Context) models.Quote {
	return models.Quote{Text: "daily quote", Author: "Tester"}
}

type fakeLister struct {
	subs []models.Subscription
	err  error
}

func (l *fakeLister) FindAll(ctx context.Context) ([]models.Subscription, error) {
	return l.subs, l.err
}

type recordingNotifier struct {
	sent    []string
	failFor string
}

func (n *recordingNotifier) Send(ctx context.Context, to, subject, html string) error {
	if to == n.failFor {
		return errors.New("mailbox full")
	}
	n.sent = append(n.sent, to)
	return nil
}

func TestDeliverMailsEverySubscriber(t *testing.T) {
	lister := &fakeLister{subs: []models.Subscription{
		{Email: "a@example.com"},
		{Email: "b@example.com"},
	}}
	notifier := &recordingNotifier{}
	s := NewScheduler(fakePicker{}, lister, notifier, 8)

	s.Deliver(context.Background())

	if len(notifier.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(notifier.sent))
	}
}

func TestDeliverContinuesPastFailedRecipient(t *testing.T) {
	lister := &fakeLister{subs: []models.Subscription{
		{Email: "a@example.com"},
		{Email: "broken@example.com"},
		{Email: "c@example.com"},
	}}
	notifier := &recordingNotifier{failFor: "broken@example.com"}
	s := NewScheduler(fakePicker{}, lister, notifier, 8)

	s.Deliver(context.Background())

	if len(notifier.sent) != 2 {
		t.Fatalf("sent %d emails, want 2 (failure skipped, not fatal)", len(notifier.sent))
	}
}

func TestDeliverSkipsDayOnListError(t *testing.T) {
	lister := &fakeLister{err: errors.New("store down")}
	notifier := &recordingNotifier{}
	s := NewScheduler(fakePicker{}, lister, notifier, 8)

	s.Deliver(context.Background())

	if len(notifier.sent) != 0 {
		t.Fatalf("sent %d emails, want 0 when the subscriber list is unavailable", len(notifier.sent))
	}
}

func TestNextRun(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name string
		now  time.Time
		hour int
		want time.Time
	}{
		{
			name: "before the hour fires same day",
			now:  time.Date(2025, 3, 10, 6, 30, 0, 0, loc),
			hour: 8,
			want: time.Date(2025, 3, 10, 8, 0, 0, 0, loc),
		},
		{
			name: "after the hour fires next day",
			now:  time.Date(2025, 3, 10, 9, 0, 0, 0, loc),
			hour: 8,
			want: time.Date(2025, 3, 11, 8, 0, 0, 0, loc),
		},
		{
			name: "exactly on the hour fires next day",
			now:  time.Date(2025, 3, 10, 8, 0, 0, 0, loc),
			hour: 8,
			want: time.Date(2025, 3, 11, 8, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextRun(tt.now, tt.hour); !got.Equal(tt.want) {
				t.Errorf("nextRun(%v, %d) = %v, want %v", tt.now, tt.hour, got, tt.want)
			}
		})
	}
}

func TestDailyQuoteEmailContainsQuote(t *testing.T) {
	subject, html := DailyQuoteEmail(models.Quote{Text: "stay hungry", Author: "Someone"})
	if subject == "" {
		t.Error("empty subject")
	}
	if !strings.Contains(html, "stay hungry") || !strings.Contains(html, "Someone") {
		t.Error("rendered email missing quote text or author")
	}
}
