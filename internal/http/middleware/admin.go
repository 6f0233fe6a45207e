package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/plumbsvc/domain"
)

// AdminMW guards the back-office surface.
type AdminMW struct {
	adminAuth domain.AdminAuthService
}

// NewAdminMW creates new admin gate middleware
func NewAdminMW(adminAuth domain.AdminAuthService) *AdminMW {
	return &AdminMW{adminAuth: adminAuth}
}

// RequireAdmin returns the admin gate middleware function. The session's
// admin claim is never trusted on its own; the allow-list is consulted on
// every request.
func (mw *AdminMW) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if err := mw.adminAuth.Authorize(c.Request.Context(), session); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
