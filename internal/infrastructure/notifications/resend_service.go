package notifications

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
	"github.com/rs/zerolog/log"
)

// ResendSender sends transactional and campaign email through Resend.
type ResendSender struct {
	client    *resend.Client
	fromEmail string
}

// NewResendSender creates a new Resend email sender
func NewResendSender(apiKey, fromEmail string) *ResendSender {
	return &ResendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

// SendEmail sends one HTML email. Without an API key the message is logged
// instead of sent.
func (r *ResendSender) SendEmail(ctx context.Context, to, subject, html string) error {
	if r.fromEmail == "" {
		log.Info().Str("to", to).Str("subject", subject).Msg("mock email (resend not configured)")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    r.fromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	if _, err := r.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
