package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/domain"
)

// AdminAuthServiceImpl implements domain.AdminAuthService
type AdminAuthServiceImpl struct {
	adminRepo   domain.AdminRepository
	passwordSvc domain.PasswordService
}

// NewAdminAuthService creates a new admin auth service
func NewAdminAuthService(adminRepo domain.AdminRepository, passwordSvc domain.PasswordService) domain.AdminAuthService {
	return &AdminAuthServiceImpl{
		adminRepo:   adminRepo,
		passwordSvc: passwordSvc,
	}
}

// Login implements domain.AdminAuthService
func (s *AdminAuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !admin.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(admin.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	log.Info().Str("email", admin.Email).Uint("admin_id", admin.ID).Msg("admin login")

	return &domain.Session{
		IsAdmin:    true,
		AdminID:    admin.ID,
		AdminEmail: admin.Email,
	}, nil
}

// Authorize implements domain.AdminAuthService. The allow-list is consulted
// on every call, never cached from the session: an admin whose row is
// deactivated loses access on their very next request even with a valid
// cookie.
func (s *AdminAuthServiceImpl) Authorize(ctx context.Context, session *domain.Session) error {
	if session == nil || !session.IsAdmin || session.AdminEmail == "" {
		return domain.ErrUnauthorized
	}

	allowed, err := s.adminRepo.IsAllowed(ctx, session.AdminEmail)
	if err != nil {
		return err
	}
	if !allowed {
		log.Warn().Str("email", session.AdminEmail).Msg("admin session rejected by allow-list")
		return domain.ErrAdminNotAllowed
	}

	return nil
}
