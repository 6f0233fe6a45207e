package app

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/you/plumbsvc/domain"
	"github.com/you/plumbsvc/internal/config"
	"github.com/you/plumbsvc/internal/infrastructure/auth"
	"github.com/you/plumbsvc/internal/infrastructure/crm"
	"github.com/you/plumbsvc/internal/infrastructure/database"
	"github.com/you/plumbsvc/internal/infrastructure/notifications"
	"github.com/you/plumbsvc/internal/infrastructure/repositories"
	"github.com/you/plumbsvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB      *gorm.DB
	Redis   *database.RedisClient
	Gateway domain.CRMGateway

	// Repositories
	AdminRepo    domain.AdminRepository
	VoucherRepo  domain.VoucherRepository
	LeadRepo     domain.LeadRepository
	CustomerRepo domain.CustomerRecordRepository

	// Services
	CookieSvc       *auth.CookieService
	GoogleSvc       *auth.GoogleOAuthService
	PasswordSvc     domain.PasswordService
	LoginTokenSvc   domain.LoginTokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	ResolverSvc     domain.AccountResolver
	PortalAuthSvc   domain.PortalAuthService
	AdminAuthSvc    domain.AdminAuthService
	VoucherSvc      domain.VoucherService
	SyncSvc         domain.SyncService
	CampaignSvc     domain.CampaignService
	Limiter         domain.RateLimiter
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) initInfrastructure() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db

	c.Redis = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := c.Redis.Healthy(context.Background()); err != nil {
		return err
	}

	gateway, err := crm.NewClient(crm.Config{
		BaseURL:      c.Config.CRMBaseURL,
		AuthURL:      c.Config.CRMAuthURL,
		TenantID:     c.Config.CRMTenantID,
		ClientID:     c.Config.CRMClientID,
		ClientSecret: c.Config.CRMClientSecret,
	})
	if err != nil {
		return err
	}
	c.Gateway = gateway

	return nil
}

func (c *Container) initRepositories() {
	c.AdminRepo = repositories.NewAdminRepository(c.DB)
	c.VoucherRepo = repositories.NewVoucherRepository(c.DB)
	c.LeadRepo = repositories.NewLeadRepository(c.DB)
	c.CustomerRepo = repositories.NewCustomerRecordRepository(c.DB)
}

func (c *Container) initServices() error {
	cookieSvc, err := auth.NewCookieService(
		c.Config.SessionHashKey,
		c.Config.SessionBlockKey,
		c.Config.SessionTTL,
		c.Config.IsProduction(),
	)
	if err != nil {
		return err
	}
	c.CookieSvc = cookieSvc

	// Google sign-in is optional; the portal still has OTP and magic links.
	if c.Config.GoogleClientID != "" {
		googleSvc, err := auth.NewGoogleOAuthService(
			context.Background(),
			c.Config.GoogleClientID,
			c.Config.GoogleClientSecret,
			c.Config.GoogleRedirectURL,
		)
		if err != nil {
			return err
		}
		c.GoogleSvc = googleSvc
	} else {
		log.Warn().Msg("google oauth not configured, /auth/google disabled")
	}

	c.PasswordSvc = auth.NewPasswordService()
	c.LoginTokenSvc = auth.NewLoginTokenService(c.Config.LoginLinkSecret, "plumbsvc", c.Config.LoginLinkTTL)
	c.NotificationSvc = notifications.NewService(
		notifications.NewTwilioSender(c.Config.TwilioSID, c.Config.TwilioToken, c.Config.TwilioFrom),
		notifications.NewResendSender(c.Config.ResendAPIKey, c.Config.ResendFromEmail),
	)

	c.OTPSvc = services.NewOTPService(c.NotificationSvc, c.Redis.Client, services.OTPConfig{
		Length:       c.Config.OTP_Length,
		TTL:          c.Config.OTP_TTL,
		MaxAttempts:  c.Config.OTP_MaxAttempts,
		ResendWindow: c.Config.OTP_ResendWindow,
	})

	c.ResolverSvc = services.NewAccountResolver(c.Gateway)
	c.PortalAuthSvc = services.NewPortalAuthService(
		c.ResolverSvc, c.OTPSvc, c.LoginTokenSvc, c.NotificationSvc, c.Config.BaseURL,
	)
	c.AdminAuthSvc = services.NewAdminAuthService(c.AdminRepo, c.PasswordSvc)
	c.VoucherSvc = services.NewVoucherService(c.VoucherRepo)

	c.SyncSvc = services.NewSyncService(c.Gateway, c.CustomerRepo, services.NewSyncLock())

	// Unsubscribe tokens are the same signed-token mechanism with a far
	// longer lifetime, so the link in an old email still works.
	unsubTokenSvc := auth.NewLoginTokenService(c.Config.LoginLinkSecret, "plumbsvc-unsub", c.Config.UnsubscribeTTL)
	c.CampaignSvc = services.NewCampaignService(
		c.CustomerRepo, c.NotificationSvc, unsubTokenSvc, c.Config.BaseURL, c.Config.CampaignWindow,
	)

	c.Limiter = services.NewRateLimiter(c.Config.RateLimitWindow, c.Config.RateLimitMax)

	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Redis != nil {
		c.Redis.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
