package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireCustomer rejects requests whose session carries no customer
// identity. No session and an admin-only session look the same to the
// portal: both are 401.
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session.CustomerID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AssertOwnership verifies the requested customer id is in the session's
// ownership set. On violation it writes a generic 403 that never confirms
// whether the foreign id exists, then returns false; the handler must stop
// before any CRM call.
func AssertOwnership(c *gin.Context, requestedID int64) bool {
	session := SessionFrom(c)
	if !session.Owns(requestedID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return false
	}
	return true
}
