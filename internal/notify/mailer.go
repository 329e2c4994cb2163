// Package notify sends transactional mail to clients.
package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"studio-orders/internal/core"
)

// Mailer delivers order confirmation emails. The Resend implementation is
// used in production; tests use RecordingMailer.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, order *core.Order) error
}

// ResendMailer sends mail through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (m *ResendMailer) SendOrderConfirmation(ctx context.Context, to string, order *core.Order) error {
	html, err := renderConfirmation(order)
	if err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}
	text, err := renderOrderSummary(order)
	if err != nil {
		return fmt.Errorf("render confirmation text: %w", err)
	}

	_, err = m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: fmt.Sprintf("Confirmation de votre commande %s", order.InvoiceNumber),
		Html:    html,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("send confirmation for order %s: %w", order.InvoiceNumber, err)
	}
	return nil
}

// RecordingMailer captures sent messages instead of delivering them.
type RecordingMailer struct {
	Sent []RecordedMail
}

type RecordedMail struct {
	To      string
	Invoice string
}

func (m *RecordingMailer) SendOrderConfirmation(ctx context.Context, to string, order *core.Order) error {
	m.Sent = append(m.Sent, RecordedMail{To: to, Invoice: order.InvoiceNumber})
	return nil
}
