package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/domain"
)

// PortalAuthServiceImpl implements domain.PortalAuthService
type PortalAuthServiceImpl struct {
	resolver        domain.AccountResolver
	otpSvc          domain.OTPService
	loginTokenSvc   domain.LoginTokenService
	notificationSvc domain.NotificationService
	baseURL         string
}

// NewPortalAuthService creates a new portal auth service
func NewPortalAuthService(
	resolver domain.AccountResolver,
	otpSvc domain.OTPService,
	loginTokenSvc domain.LoginTokenService,
	notificationSvc domain.NotificationService,
	baseURL string,
) domain.PortalAuthService {
	return &PortalAuthServiceImpl{
		resolver:        resolver,
		otpSvc:          otpSvc,
		loginTokenSvc:   loginTokenSvc,
		notificationSvc: notificationSvc,
		baseURL:         baseURL,
	}
}

// StartPhoneLogin implements domain.PortalAuthService. The OTP is only sent
// when the phone matches at least one customer record, but the caller gets
// the same response either way so the endpoint cannot be used to probe which
// phone numbers exist.
func (s *PortalAuthServiceImpl) StartPhoneLogin(ctx context.Context, phone string) error {
	ids, err := s.resolver.ResolveByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		log.Info().Str("phone", phone).Msg("phone login requested for unknown contact")
		return nil
	}

	_, err = s.otpSvc.Generate(ctx, phone)
	return err
}

// CompletePhoneLogin implements domain.PortalAuthService
func (s *PortalAuthServiceImpl) CompletePhoneLogin(ctx context.Context, phone, code string) (*domain.Session, error) {
	valid, err := s.otpSvc.Verify(ctx, phone, code)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, domain.ErrOTPInvalid
	}

	ids, err := s.resolver.ResolveByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return s.sessionFor(ids)
}

// StartEmailLogin implements domain.PortalAuthService. Sends a magic link;
// like phone login, unknown emails are swallowed.
func (s *PortalAuthServiceImpl) StartEmailLogin(ctx context.Context, email string) error {
	ids, err := s.resolver.ResolveByEmail(ctx, email)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		log.Info().Str("email", email).Msg("email login requested for unknown contact")
		return nil
	}

	token, err := s.loginTokenSvc.Generate(email)
	if err != nil {
		return fmt.Errorf("failed to generate login token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/email/complete?token=%s", s.baseURL, token)
	html := fmt.Sprintf(
		`<p>Click the link below to sign in to your Economy Plumbing account.</p><p><a href=%q>Sign in</a></p><p>The link expires in 15 minutes. If you didn't request it, you can ignore this email.</p>`,
		link,
	)
	return s.notificationSvc.SendEmail(ctx, email, "Your sign-in link", html)
}

// CompleteEmailLogin implements domain.PortalAuthService
func (s *PortalAuthServiceImpl) CompleteEmailLogin(ctx context.Context, token string) (*domain.Session, error) {
	email, err := s.loginTokenSvc.Validate(token)
	if err != nil {
		return nil, err
	}

	ids, err := s.resolver.ResolveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.sessionFor(ids)
}

// CompleteOAuthLogin implements domain.PortalAuthService. Called after the
// OAuth provider has verified the email.
func (s *PortalAuthServiceImpl) CompleteOAuthLogin(ctx context.Context, email string) (*domain.Session, error) {
	ids, err := s.resolver.ResolveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.sessionFor(ids)
}

// SwitchAccount implements domain.PortalAuthService. The only privilege-
// escalation-shaped operation in the system: it can only move the caller
// among accounts proven at login, never widen the set.
func (s *PortalAuthServiceImpl) SwitchAccount(session *domain.Session, targetID int64) error {
	if !session.Authenticated() || session.CustomerID == 0 {
		return domain.ErrUnauthorized
	}
	if !session.Owns(targetID) {
		return domain.ErrForbidden
	}

	session.CustomerID = targetID
	return nil
}

func (s *PortalAuthServiceImpl) sessionFor(ids []int64) (*domain.Session, error) {
	if len(ids) == 0 {
		return nil, domain.ErrNoCustomerMatch
	}
	return &domain.Session{
		CustomerID:           ids[0],
		AvailableCustomerIDs: ids,
	}, nil
}
