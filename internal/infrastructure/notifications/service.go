package notifications

import (
	"context"

	"github.com/you/plumbsvc/domain"
)

// Service implements domain.NotificationService by composing the Twilio SMS
// sender and the Resend email sender.
type Service struct {
	sms   *TwilioSender
	email *ResendSender
}

// NewService creates the composite notification service
func NewService(sms *TwilioSender, email *ResendSender) domain.NotificationService {
	return &Service{sms: sms, email: email}
}

// SendSMS implements domain.NotificationService
func (s *Service) SendSMS(to, message string) error {
	return s.sms.SendSMS(to, message)
}

// SendEmail implements domain.NotificationService
func (s *Service) SendEmail(ctx context.Context, to, subject, html string) error {
	return s.email.SendEmail(ctx, to, subject, html)
}
