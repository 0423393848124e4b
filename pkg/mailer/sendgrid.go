package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("email provider responded %d: %s", e.StatusCode, e.Body)
}

type SendGridMailer struct {
	client *sendgrid.Client
	from   Address
}

func NewSendGridMailer(apiKey string, from Address) *SendGridMailer {
	return &SendGridMailer{client: sendgrid.NewSendClient(apiKey), from: from}
}

func (m *SendGridMailer) Provider() string { return ProviderSendGrid }

func (m *SendGridMailer) Send(ctx context.Context, msg *Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	email := mail.NewSingleEmail(
		mail.NewEmail(m.from.Name, m.from.Email),
		msg.Subject,
		mail.NewEmail(msg.To.Name, msg.To.Email),
		msg.Text,
		msg.HTML,
	)

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ProviderError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	return nil
}
