package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"

	"github.com/you/plumbsvc/domain"
)

const sessionCookieName = "plumb_session"

// CookieService serializes sessions into an encrypted, signed cookie. The
// cookie is the entire session record; there is no server-side table, so a
// leaked-but-valid cookie stays valid until its TTL passes.
type CookieService struct {
	codec  *securecookie.SecureCookie
	ttl    time.Duration
	secure bool
}

// NewCookieService creates a new cookie session service. Missing keys are a
// boot-time fatal condition.
func NewCookieService(hashKey, blockKey string, ttl time.Duration, secure bool) (*CookieService, error) {
	if hashKey == "" || blockKey == "" {
		return nil, fmt.Errorf("session cookie keys: %w", domain.ErrConfiguration)
	}

	codec := securecookie.New([]byte(hashKey), []byte(blockKey))
	codec.MaxAge(int(ttl.Seconds()))

	return &CookieService{
		codec:  codec,
		ttl:    ttl,
		secure: secure,
	}, nil
}

// Issue stamps the session with its fixed TTL and writes the cookie.
func (s *CookieService) Issue(c *gin.Context, session *domain.Session) error {
	now := time.Now()
	session.IssuedAt = now
	session.ExpiresAt = now.Add(s.ttl)

	encoded, err := s.codec.Encode(sessionCookieName, session)
	if err != nil {
		return fmt.Errorf("failed to encode session cookie: %w", err)
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read decodes the session cookie. It never fails: an absent, malformed,
// tampered or expired cookie yields an empty anonymous session, which callers
// must treat as "not authenticated" rather than an error.
func (s *CookieService) Read(r *http.Request) *domain.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return &domain.Session{}
	}

	var session domain.Session
	if err := s.codec.Decode(sessionCookieName, cookie.Value, &session); err != nil {
		return &domain.Session{}
	}

	if session.Expired(time.Now()) {
		return &domain.Session{}
	}

	return &session
}

// Clear deletes the cookie. Logout is cookie deletion; there is nothing to
// revoke server-side.
func (s *CookieService) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
