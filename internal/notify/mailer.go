package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"squotato-backend/internal/models"
)

// Mailer delivers notifications as email through Resend.
type Mailer struct {
	client *resend.Client
	from   string
}

func NewMailer(apiKey, from string) *Mailer {
	return &Mailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *Mailer) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := m.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// DailyQuoteEmail renders the subject and body of the daily quote delivery.
func DailyQuoteEmail(quote models.Quote) (subject, html string) {
	subject = "Your Squotato quote of the day"
	html = fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
			<h2 style="color: #333;">Quote of the day 🥔</h2>
			<blockquote style="font-size: 18px; color: #444; border-left: 4px solid #6366f1; margin: 0; padding-left: 16px;">
				"%s"
			</blockquote>
			<p style="color: #888; font-size: 14px;">— %s</p>
			<p style="color: #aaa; font-size: 12px;">
				You get this email because you subscribed to daily quotes. Unsubscribe in the app.
			</p>
		</div>
	`, quote.Text, quote.Author)
	return subject, html
}

// WelcomeEmail renders the signup greeting.
func WelcomeEmail(username string) (subject, html string) {
	subject = "Welcome to Squotato"
	html = fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
			<h2 style="color: #333;">Welcome, %s! 🥔</h2>
			<p>Your account is ready. Vote on quotes, submit your own, and
			subscribe to the daily quote if you want one in your inbox.</p>
			<p style="color: #aaa; font-size: 12px;">
				If you didn't create this account, you can safely ignore this email.
			</p>
		</div>
	`, username)
	return subject, html
}
