package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/domain"
)

// CronHandlers handles scheduler-triggered HTTP requests. These run the work
// synchronously so the scheduler sees the real outcome.
type CronHandlers struct {
	syncSvc     domain.SyncService
	campaignSvc domain.CampaignService
}

// NewCronHandlers creates new cron handlers
func NewCronHandlers(syncSvc domain.SyncService, campaignSvc domain.CampaignService) *CronHandlers {
	return &CronHandlers{syncSvc: syncSvc, campaignSvc: campaignSvc}
}

// SyncCustomers runs the full CRM-to-local customer sync.
func (h *CronHandlers) SyncCustomers(c *gin.Context) {
	count, err := h.syncSvc.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "Sync already running"})
			return
		}
		log.Error().Err(err).Msg("cron sync failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"synced": count}})
}

// SendDrip runs the reminder-email campaign over the synced customers.
func (h *CronHandlers) SendDrip(c *gin.Context) {
	sent, err := h.campaignSvc.RunDrip(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("cron drip failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Drip run failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"sent": sent}})
}
