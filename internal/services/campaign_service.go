package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/domain"
)

const dripBatchSize = 100

// CampaignServiceImpl implements domain.CampaignService. One drip run sends
// a service-reminder email to synced customers who have not been mailed
// within the window. Each email carries a signed unsubscribe link.
type CampaignServiceImpl struct {
	customerRepo    domain.CustomerRecordRepository
	notificationSvc domain.NotificationService
	tokenSvc        domain.LoginTokenService
	baseURL         string
	window          time.Duration
}

// NewCampaignService creates a new drip campaign service
func NewCampaignService(
	customerRepo domain.CustomerRecordRepository,
	notificationSvc domain.NotificationService,
	tokenSvc domain.LoginTokenService,
	baseURL string,
	window time.Duration,
) domain.CampaignService {
	return &CampaignServiceImpl{
		customerRepo:    customerRepo,
		notificationSvc: notificationSvc,
		tokenSvc:        tokenSvc,
		baseURL:         baseURL,
		window:          window,
	}
}

// RunDrip implements domain.CampaignService. A failed send skips the
// customer without marking them mailed, so the next run retries them.
func (s *CampaignServiceImpl) RunDrip(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.window)
	records, err := s.customerRepo.ListDrippable(ctx, cutoff, dripBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list drip candidates: %w", err)
	}

	sent := 0
	for _, record := range records {
		token, err := s.tokenSvc.Generate(record.Email)
		if err != nil {
			return sent, fmt.Errorf("failed to generate unsubscribe token: %w", err)
		}

		html := s.reminderBody(record.Name, token)
		if err := s.notificationSvc.SendEmail(ctx, record.Email, "Time for a plumbing check-up?", html); err != nil {
			log.Warn().Err(err).Int64("crm_id", record.CRMID).Msg("drip email failed")
			continue
		}

		if err := s.customerRepo.MarkEmailed(ctx, record.CRMID, time.Now()); err != nil {
			return sent, fmt.Errorf("failed to mark customer emailed: %w", err)
		}
		sent++
	}

	log.Info().Int("sent", sent).Int("candidates", len(records)).Msg("drip run finished")
	return sent, nil
}

// Unsubscribe implements domain.CampaignService. The token carries only the
// email address it was issued for.
func (s *CampaignServiceImpl) Unsubscribe(ctx context.Context, token string) error {
	email, err := s.tokenSvc.Validate(token)
	if err != nil {
		return err
	}
	return s.customerRepo.SetDoNotMailByEmail(ctx, email)
}

func (s *CampaignServiceImpl) reminderBody(name, unsubscribeToken string) string {
	link := fmt.Sprintf("%s/api/unsubscribe?token=%s", s.baseURL, unsubscribeToken)
	return fmt.Sprintf(
		`<p>Hi %s,</p><p>It's been a while since your last service visit. Book a plumbing check-up online or give us a call.</p><p><a href=%q>Book now</a></p><p style="font-size:12px"><a href=%q>Unsubscribe</a></p>`,
		name, s.baseURL+"/schedule", link,
	)
}
