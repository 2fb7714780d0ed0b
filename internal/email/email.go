// Package email sends the product's two transactional mails: team
// invitations and task-assignment notifications.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages. Tests substitute fakes.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// ResendSender delivers through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a ResendSender.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

// Send delivers one message.
func (s *ResendSender) Send(ctx context.Context, m Message) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{m.To},
		Subject: m.Subject,
		Html:    m.HTML,
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", m.To, err)
	}
	return nil
}

// NoopSender discards mail; used when no RESEND_API_KEY is configured.
type NoopSender struct{}

func (NoopSender) Send(context.Context, Message) error { return nil }

// InvitationMessage builds the team-invitation email.
func InvitationMessage(to, teamName, invitationURL string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("You've been invited to join %s on Smart Tasks", teamName),
		HTML: fmt.Sprintf(`<div>
  <h1>You've been invited!</h1>
  <p>You've been invited to join %s on Smart Tasks.</p>
  <p>Click the link below to accept the invitation:</p>
  <a href=%q>Accept Invitation</a>
  <p>This invitation will expire in 7 days.</p>
</div>`, teamName, invitationURL),
	}
}

// TaskNotificationMessage builds the task-assignment email.
func TaskNotificationMessage(to, taskDescription, assignerName, teamName, taskURL string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("%s assigned you a task in %s", assignerName, teamName),
		HTML: fmt.Sprintf(`<div>
  <h1>New task assigned to you</h1>
  <p>%s assigned you a task in %s:</p>
  <blockquote>%s</blockquote>
  <a href=%q>View Task</a>
</div>`, assignerName, teamName, taskDescription, taskURL),
	}
}
