package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/you/plumbsvc/domain"
	"github.com/you/plumbsvc/internal/infrastructure/auth"
)

const sessionContextKey = "session"

// SessionMW decodes the session cookie into the request context. It never
// rejects a request: an invalid cookie simply yields an anonymous session,
// and the gates downstream decide what that means.
type SessionMW struct {
	cookieSvc *auth.CookieService
}

// NewSessionMW creates new session middleware
func NewSessionMW(cookieSvc *auth.CookieService) *SessionMW {
	return &SessionMW{cookieSvc: cookieSvc}
}

// Load returns the session-loading middleware function
func (mw *SessionMW) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionContextKey, mw.cookieSvc.Read(c.Request))
		c.Next()
	}
}

// SessionFrom returns the request's session, anonymous if none was loaded.
func SessionFrom(c *gin.Context) *domain.Session {
	if v, exists := c.Get(sessionContextKey); exists {
		if session, ok := v.(*domain.Session); ok {
			return session
		}
	}
	return &domain.Session{}
}
