package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/domain"
	"github.com/you/plumbsvc/internal/http/middleware"
	"github.com/you/plumbsvc/internal/infrastructure/auth"
)

// AuthHandlers handles customer portal authentication HTTP requests
type AuthHandlers struct {
	portalAuth domain.PortalAuthService
	cookieSvc  *auth.CookieService
	googleSvc  *auth.GoogleOAuthService
}

// NewAuthHandlers creates new auth handlers. googleSvc may be nil when
// Google sign-in is not configured.
func NewAuthHandlers(portalAuth domain.PortalAuthService, cookieSvc *auth.CookieService, googleSvc *auth.GoogleOAuthService) *AuthHandlers {
	return &AuthHandlers{
		portalAuth: portalAuth,
		cookieSvc:  cookieSvc,
		googleSvc:  googleSvc,
	}
}

// SendOTPRequest represents an OTP login start request
type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required,min=10"`
}

// VerifyOTPRequest represents an OTP login completion request
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required,min=10"`
	Code  string `json:"code" binding:"required"`
}

// EmailLoginRequest represents a magic-link login start request
type EmailLoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SwitchAccountRequest represents an active-account switch request
type SwitchAccountRequest struct {
	CustomerID int64 `json:"customerId" binding:"required"`
}

// SendOTP handles OTP login start. The response is identical whether or not
// the phone matches a customer, so the endpoint cannot probe for accounts.
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.portalAuth.StartPhoneLogin(c.Request.Context(), req.Phone); err != nil {
		if errors.Is(err, domain.ErrOTPResendLimit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting another code"})
			return
		}
		log.Error().Err(err).Msg("otp send failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "If the phone number is on file, a code has been sent"},
	})
}

// VerifyOTP handles OTP login completion and issues the session cookie.
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.portalAuth.CompletePhoneLogin(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOTPNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No code found"})
		case errors.Is(err, domain.ErrOTPExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code has expired"})
		case errors.Is(err, domain.ErrOTPMaxAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Maximum attempts exceeded"})
		case errors.Is(err, domain.ErrOTPInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid code"})
		case errors.Is(err, domain.ErrNoCustomerMatch):
			c.JSON(http.StatusNotFound, gin.H{"error": "No account found"})
		default:
			log.Error().Err(err).Msg("otp verify failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	if err := h.cookieSvc.Issue(c, session); err != nil {
		log.Error().Err(err).Msg("failed to issue session cookie")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sessionPayload(session)})
}

// SendEmailLink handles magic-link login start.
func (h *AuthHandlers) SendEmailLink(c *gin.Context) {
	var req EmailLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.portalAuth.StartEmailLogin(c.Request.Context(), req.Email); err != nil {
		log.Error().Err(err).Msg("email login start failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "If the email is on file, a sign-in link has been sent"},
	})
}

// CompleteEmailLink handles the browser's magic-link click. This is a
// navigation, not an API call, so failures redirect rather than return JSON.
func (h *AuthHandlers) CompleteEmailLink(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusFound, "/login?error=invalid_link")
		return
	}

	session, err := h.portalAuth.CompleteEmailLogin(c.Request.Context(), token)
	if err != nil {
		c.Redirect(http.StatusFound, "/login?error=invalid_link")
		return
	}

	if err := h.cookieSvc.Issue(c, session); err != nil {
		log.Error().Err(err).Msg("failed to issue session cookie")
		c.Redirect(http.StatusFound, "/login?error=server")
		return
	}

	c.Redirect(http.StatusFound, "/account")
}

// GoogleStart begins the Google sign-in round trip. The state nonce rides in
// the session cookie and is compared on callback.
func (h *AuthHandlers) GoogleStart(c *gin.Context) {
	if h.googleSvc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in not configured"})
		return
	}

	// The nonce rides alongside any existing claims, so a logged-in customer
	// who abandons the flow keeps their session.
	session := middleware.SessionFrom(c)
	state := uuid.NewString()
	session.OAuthState = state
	if err := h.cookieSvc.Issue(c, session); err != nil {
		log.Error().Err(err).Msg("failed to issue oauth state cookie")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.Redirect(http.StatusFound, h.googleSvc.AuthURL(state))
}

// GoogleCallback completes the Google sign-in round trip.
func (h *AuthHandlers) GoogleCallback(c *gin.Context) {
	if h.googleSvc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in not configured"})
		return
	}

	session := middleware.SessionFrom(c)
	state := c.Query("state")
	if state == "" || session.OAuthState == "" || state != session.OAuthState {
		c.Redirect(http.StatusFound, "/login?error=state_mismatch")
		return
	}

	email, err := h.googleSvc.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.Warn().Err(err).Msg("google oauth exchange failed")
		c.Redirect(http.StatusFound, "/login?error=oauth_failed")
		return
	}

	newSession, err := h.portalAuth.CompleteOAuthLogin(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrNoCustomerMatch) {
			c.Redirect(http.StatusFound, "/login?error=no_account")
			return
		}
		log.Error().Err(err).Msg("oauth login failed")
		c.Redirect(http.StatusFound, "/login?error=server")
		return
	}

	if err := h.cookieSvc.Issue(c, newSession); err != nil {
		log.Error().Err(err).Msg("failed to issue session cookie")
		c.Redirect(http.StatusFound, "/login?error=server")
		return
	}

	c.Redirect(http.StatusFound, "/account")
}

// Me returns the authenticated session's identity (requires customer auth).
func (h *AuthHandlers) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": sessionPayload(middleware.SessionFrom(c))})
}

// SwitchAccount moves the session's active account within its ownership set
// and re-issues the cookie.
func (h *AuthHandlers) SwitchAccount(c *gin.Context) {
	var req SwitchAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := middleware.SessionFrom(c)
	if err := h.portalAuth.SwitchAccount(session, req.CustomerID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.cookieSvc.Issue(c, session); err != nil {
		log.Error().Err(err).Msg("failed to re-issue session cookie")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Switch failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sessionPayload(session)})
}

// Logout clears the session cookie. The cookie is the whole session, so
// deleting it is the logout.
func (h *AuthHandlers) Logout(c *gin.Context) {
	h.cookieSvc.Clear(c)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Logged out"}})
}

func sessionPayload(session *domain.Session) gin.H {
	return gin.H{
		"customerId":           session.CustomerID,
		"availableCustomerIds": session.AvailableCustomerIDs,
	}
}
