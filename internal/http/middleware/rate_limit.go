package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/plumbsvc/domain"
)

// RateLimit applies the fixed-window limiter keyed by route name and client
// IP. Used on the login and lead endpoints that can be hammered anonymously.
func RateLimit(limiter domain.RateLimiter, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := name + ":" + c.ClientIP()
		if !limiter.Allow(key) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
