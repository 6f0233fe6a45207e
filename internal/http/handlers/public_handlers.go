package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/domain"
	"github.com/you/plumbsvc/internal/infrastructure/database"
)

// PublicHandlers handles unauthenticated site endpoints
type PublicHandlers struct {
	leadRepo    domain.LeadRepository
	campaignSvc domain.CampaignService
	redis       *database.RedisClient
}

// NewPublicHandlers creates new public handlers
func NewPublicHandlers(leadRepo domain.LeadRepository, campaignSvc domain.CampaignService, redis *database.RedisClient) *PublicHandlers {
	return &PublicHandlers{leadRepo: leadRepo, campaignSvc: campaignSvc, redis: redis}
}

// CreateLeadRequest represents a contact-form submission
type CreateLeadRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Phone   string `json:"phone" binding:"omitempty,min=10"`
	Email   string `json:"email" binding:"omitempty,email"`
	Message string `json:"message" binding:"required,max=5000"`
	Source  string `json:"source" binding:"max=100"`
}

// CreateLead stores a contact-form submission. Rate limited per IP at the
// router since it is open to the world.
func (h *PublicHandlers) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Phone == "" && req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A phone number or email is required"})
		return
	}

	lead := &domain.Lead{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Message: req.Message,
		Source:  req.Source,
	}
	if err := h.leadRepo.Create(c.Request.Context(), lead); err != nil {
		log.Error().Err(err).Msg("lead create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit"})
		return
	}

	log.Info().Str("source", lead.Source).Msg("lead received")
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"received": true}})
}

// Unsubscribe opts an email out of the drip campaign. Reached from a link in
// the reminder email, so it renders a tiny page instead of JSON.
func (h *PublicHandlers) Unsubscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.String(http.StatusBadRequest, "Invalid unsubscribe link.")
		return
	}

	if err := h.campaignSvc.Unsubscribe(c.Request.Context(), token); err != nil {
		c.String(http.StatusBadRequest, "This unsubscribe link is invalid or has expired.")
		return
	}

	c.String(http.StatusOK, "You have been unsubscribed from reminder emails.")
}

// Health reports process and dependency liveness.
func (h *PublicHandlers) Health(c *gin.Context) {
	redisOK := h.redis == nil || h.redis.Healthy(c.Request.Context()) == nil

	status := http.StatusOK
	state := "ok"
	if !redisOK {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	c.JSON(status, gin.H{"status": state, "redis": redisOK})
}
