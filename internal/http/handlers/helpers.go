package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/domain"
	"github.com/you/plumbsvc/internal/infrastructure/crm"
)

// respondUpstream maps CRM gateway failures to portal responses. The
// "not active" business rejection surfaces as 409 so the frontend can tell
// the customer to call the office; everything else is an opaque 500.
func respondUpstream(c *gin.Context, err error) {
	if crm.IsNotActive(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "This account is not active. Please call our office."})
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("crm request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Service temporarily unavailable"})
}

// pathID parses a positive int64 path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
