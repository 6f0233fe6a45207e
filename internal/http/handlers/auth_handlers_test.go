package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/you/plumbsvc/domain"
	"github.com/you/plumbsvc/internal/http/middleware"
	"github.com/you/plumbsvc/internal/infrastructure/auth"
)

type stubPortalAuth struct {
	startPhoneErr    error
	completePhone    func(ctx context.Context, phone, code string) (*domain.Session, error)
	completeEmail    func(ctx context.Context, token string) (*domain.Session, error)
	completeOAuthFn  func(ctx context.Context, email string) (*domain.Session, error)
	switchAccountErr error
}

func (s *stubPortalAuth) StartPhoneLogin(ctx context.Context, phone string) error {
	return s.startPhoneErr
}

func (s *stubPortalAuth) CompletePhoneLogin(ctx context.Context, phone, code string) (*domain.Session, error) {
	if s.completePhone != nil {
		return s.completePhone(ctx, phone, code)
	}
	return nil, domain.ErrOTPInvalid
}

func (s *stubPortalAuth) StartEmailLogin(ctx context.Context, email string) error { return nil }

func (s *stubPortalAuth) CompleteEmailLogin(ctx context.Context, token string) (*domain.Session, error) {
	if s.completeEmail != nil {
		return s.completeEmail(ctx, token)
	}
	return nil, domain.ErrTokenInvalid
}

func (s *stubPortalAuth) CompleteOAuthLogin(ctx context.Context, email string) (*domain.Session, error) {
	if s.completeOAuthFn != nil {
		return s.completeOAuthFn(ctx, email)
	}
	return nil, domain.ErrNoCustomerMatch
}

func (s *stubPortalAuth) SwitchAccount(session *domain.Session, targetID int64) error {
	if s.switchAccountErr != nil {
		return s.switchAccountErr
	}
	if !session.Owns(targetID) {
		return domain.ErrForbidden
	}
	session.CustomerID = targetID
	return nil
}

func cookieServiceForTest(t *testing.T) *auth.CookieService {
	t.Helper()
	svc, err := auth.NewCookieService(
		"test-hash-key-0123456789abcdef0123456789abcdef0123456789abcdef01",
		"test-block-key-0123456789abcdef0",
		time.Hour, false)
	if err != nil {
		t.Fatalf("NewCookieService: %v", err)
	}
	return svc
}

func authRouterForTest(t *testing.T, portalAuth domain.PortalAuthService) (*gin.Engine, *auth.CookieService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cookieSvc := cookieServiceForTest(t)
	h := NewAuthHandlers(portalAuth, cookieSvc, nil)
	sessionMW := middleware.NewSessionMW(cookieSvc)

	r := gin.New()
	r.Use(sessionMW.Load())
	r.POST("/auth/otp/verify", h.VerifyOTP)
	r.GET("/auth/email/complete", h.CompleteEmailLink)
	authed := r.Group("/auth").Use(middleware.RequireCustomer())
	authed.POST("/switch-account", h.SwitchAccount)
	authed.GET("/me", h.Me)
	return r, cookieSvc
}

func TestAuthHandlers_VerifyOTP_IssuesSessionCookie(t *testing.T) {
	portalAuth := &stubPortalAuth{
		completePhone: func(ctx context.Context, phone, code string) (*domain.Session, error) {
			return &domain.Session{CustomerID: 42, AvailableCustomerIDs: []int64{42, 77}}, nil
		},
	}
	r, cookieSvc := authRouterForTest(t, portalAuth)

	req := httptest.NewRequest(http.MethodPost, "/auth/otp/verify", strings.NewReader(`{"phone":"+15125551234","code":"123456"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// The cookie round-trips to an authenticated session.
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie issued")
	}
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	session := cookieSvc.Read(next)
	if session.CustomerID != 42 || len(session.AvailableCustomerIDs) != 2 {
		t.Errorf("session did not survive the cookie: %+v", session)
	}
}

func TestAuthHandlers_VerifyOTP_ErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "no code on file", err: domain.ErrOTPNotFound, expectedStatus: http.StatusNotFound},
		{name: "expired code", err: domain.ErrOTPExpired, expectedStatus: http.StatusBadRequest},
		{name: "wrong code", err: domain.ErrOTPInvalid, expectedStatus: http.StatusBadRequest},
		{name: "too many attempts", err: domain.ErrOTPMaxAttempts, expectedStatus: http.StatusTooManyRequests},
		{name: "no matching account", err: domain.ErrNoCustomerMatch, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			portalAuth := &stubPortalAuth{
				completePhone: func(ctx context.Context, phone, code string) (*domain.Session, error) {
					return nil, tt.err
				},
			}
			r, _ := authRouterForTest(t, portalAuth)

			req := httptest.NewRequest(http.MethodPost, "/auth/otp/verify", strings.NewReader(`{"phone":"+15125551234","code":"000000"}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if len(w.Result().Cookies()) != 0 {
				t.Error("cookie issued on failed login")
			}
		})
	}
}

func TestAuthHandlers_CompleteEmailLink_RedirectsOnBadToken(t *testing.T) {
	r, _ := authRouterForTest(t, &stubPortalAuth{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/email/complete?token=forged", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "error=invalid_link") {
		t.Errorf("unexpected redirect target %q", loc)
	}
}

func TestAuthHandlers_SwitchAccount(t *testing.T) {
	portalAuth := &stubPortalAuth{}
	r, cookieSvc := authRouterForTest(t, portalAuth)

	// Log in first to get a real session cookie.
	login := httptest.NewRecorder()
	{
		gin.SetMode(gin.TestMode)
		c, _ := gin.CreateTestContext(login)
		if err := cookieSvc.Issue(c, &domain.Session{CustomerID: 42, AvailableCustomerIDs: []int64{42, 77}}); err != nil {
			t.Fatalf("Issue: %v", err)
		}
	}
	sessionCookies := login.Result().Cookies()

	tests := []struct {
		name           string
		targetID       int64
		expectedStatus int
	}{
		{name: "owned account", targetID: 77, expectedStatus: http.StatusOK},
		{name: "foreign account", targetID: 99, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/switch-account",
				strings.NewReader(`{"customerId":`+strconv.FormatInt(tt.targetID, 10)+`}`))
			req.Header.Set("Content-Type", "application/json")
			for _, c := range sessionCookies {
				req.AddCookie(c)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d, body %s", w.Code, tt.expectedStatus, w.Body.String())
			}
			if tt.expectedStatus == http.StatusOK {
				if len(w.Result().Cookies()) == 0 {
					t.Error("switch did not re-issue the cookie")
				}
			}
		})
	}
}

// Starting the Google round trip must not log the caller out: the state
// nonce rides alongside any claims the session already carries.
func TestAuthHandlers_GoogleStart_KeepsExistingSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cookieSvc := cookieServiceForTest(t)
	googleSvc := auth.NewGoogleOAuthServiceWithEndpoint(
		"client-id", "client-secret", "https://www.epplumbing.com/auth/google/callback",
		oauth2.Endpoint{AuthURL: "https://accounts.example.com/o/oauth2/auth"}, nil)
	h := NewAuthHandlers(&stubPortalAuth{}, cookieSvc, googleSvc)

	r := gin.New()
	r.Use(middleware.NewSessionMW(cookieSvc).Load())
	r.GET("/auth/google/start", h.GoogleStart)

	login := httptest.NewRecorder()
	{
		c, _ := gin.CreateTestContext(login)
		if err := cookieSvc.Issue(c, &domain.Session{CustomerID: 42, AvailableCustomerIDs: []int64{42, 77}}); err != nil {
			t.Fatalf("Issue: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/google/start", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "state=") {
		t.Errorf("redirect carries no state nonce: %q", loc)
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}
	session := cookieSvc.Read(next)
	if session.CustomerID != 42 || len(session.AvailableCustomerIDs) != 2 {
		t.Errorf("existing login lost: %+v", session)
	}
	if session.OAuthState == "" {
		t.Error("state nonce missing from session")
	}
}

func TestAuthHandlers_SwitchAccount_Anonymous(t *testing.T) {
	r, _ := authRouterForTest(t, &stubPortalAuth{})

	req := httptest.NewRequest(http.MethodPost, "/auth/switch-account", strings.NewReader(`{"customerId":42}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

