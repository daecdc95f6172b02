package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridProvider delivers booking confirmations through SendGrid. This is
// the production provider; dispatch addresses are tenant-configured and the
// from identity comes from email config.
type SendGridProvider struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridProvider(apiKey, fromEmail, fromName string) *SendGridProvider {
	return &SendGridProvider{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (p *SendGridProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	from := mail.NewEmail(p.fromName, p.fromEmail)
	recipient := mail.NewEmail("", to)

	plain, html := body, ""
	if isHTML {
		plain, html = "", body
	}
	message := mail.NewSingleEmail(from, subject, recipient, plain, html)

	resp, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
