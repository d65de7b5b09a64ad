package notify

import (
	"context"
	"log"
	"time"

	"squotato-backend/internal/models"
)

// QuotePicker selects the quote of the day.
type QuotePicker interface {
	Random(ctx context.Context) models.Quote
}

// SubscriberLister lists everyone opted in to the daily delivery.
type SubscriberLister interface {
	FindAll(ctx context.Context) ([]models.Subscription, error)
}

// Scheduler mails a weighted-random quote to every subscriber once a day at
// the configured local hour. Delivery failures are logged and skipped, never
// fatal to the process.
type Scheduler struct {
	picker   QuotePicker
	subs     SubscriberLister
	notifier Notifier
	hour     int
}

func NewScheduler(picker QuotePicker, subs SubscriberLister, notifier Notifier, hour int) *Scheduler {
	return &Scheduler{
		picker:   picker,
		subs:     subs,
		notifier: notifier,
		hour:     hour,
	}
}

// Run blocks until ctx is cancelled. Call it in its own goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := nextRun(time.Now(), s.hour)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.Deliver(ctx)
		}
	}
}

// Deliver sends today's quote to all subscribers.
func (s *Scheduler) Deliver(ctx context.Context) {
	quote := s.picker.Random(ctx)

	subs, err := s.subs.FindAll(ctx)
	if err != nil {
		log.Printf("Error listing subscribers, skipping today's delivery: %v", err)
		return
	}

	subject, html := DailyQuoteEmail(quote)
	sent := 0
	for _, sub := range subs {
		if err := s.notifier.Send(ctx, sub.Email, subject, html); err != nil {
			log.Printf("Error sending daily quote to %s: %v", sub.Email, err)
			continue
		}
		sent++
	}
	log.Printf("📬 Daily quote delivered to %d/%d subscribers", sent, len(subs))
}

// nextRun is the next occurrence of hour:00 strictly after now.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
