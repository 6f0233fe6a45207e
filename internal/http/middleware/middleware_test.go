package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/you/plumbsvc/domain"
)

type stubAdminAuth struct {
	authorizeErr error
}

func (s *stubAdminAuth) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAdminAuth) Authorize(ctx context.Context, session *domain.Session) error {
	return s.authorizeErr
}

func routerWithSession(session *domain.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("session", session)
		c.Next()
	})
	return r
}

func TestRequireCustomer(t *testing.T) {
	tests := []struct {
		name           string
		session        *domain.Session
		expectedStatus int
	}{
		{
			name:           "customer session passes",
			session:        &domain.Session{CustomerID: 42, AvailableCustomerIDs: []int64{42}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "anonymous session rejected",
			session:        &domain.Session{},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "admin-only session rejected from portal",
			session:        &domain.Session{IsAdmin: true, AdminEmail: "owner@epplumbing.com"},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := routerWithSession(tt.session)
			r.GET("/portal/ping", RequireCustomer(), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/portal/ping", nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name           string
		authorizeErr   error
		expectedStatus int
	}{
		{name: "allowed admin passes", authorizeErr: nil, expectedStatus: http.StatusOK},
		{
			name:           "allow-list rejection is 401",
			authorizeErr:   domain.ErrAdminNotAllowed,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "non-admin session is 401",
			authorizeErr:   domain.ErrUnauthorized,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewAdminMW(&stubAdminAuth{authorizeErr: tt.authorizeErr})
			r := routerWithSession(&domain.Session{IsAdmin: true, AdminEmail: "owner@epplumbing.com"})

			handlerReached := false
			r.GET("/admin/ping", mw.RequireAdmin(), func(c *gin.Context) {
				handlerReached = true
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedStatus != http.StatusOK && handlerReached {
				t.Error("handler ran despite failed authorization")
			}
		})
	}
}

func TestAssertOwnership(t *testing.T) {
	session := &domain.Session{CustomerID: 42, AvailableCustomerIDs: []int64{42, 77}}

	tests := []struct {
		name        string
		requestedID int64
		want        bool
	}{
		{name: "active account", requestedID: 42, want: true},
		{name: "other owned account", requestedID: 77, want: true},
		{name: "foreign account", requestedID: 99, want: false},
		{name: "zero id", requestedID: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set("session", session)

			got := AssertOwnership(c, tt.requestedID)
			if got != tt.want {
				t.Fatalf("AssertOwnership(%d) = %v, want %v", tt.requestedID, got, tt.want)
			}
			if !tt.want {
				if w.Code != http.StatusForbidden {
					t.Errorf("status = %d, want 403", w.Code)
				}
				// The denial must not reveal anything about the target.
				if body := w.Body.String(); body != `{"error":"Access denied"}` {
					t.Errorf("response leaks detail: %s", body)
				}
			}
		})
	}
}

func TestRequireCronSecret(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "valid secret", header: "Bearer s3cret", expectedStatus: http.StatusOK},
		{name: "wrong secret", header: "Bearer nope", expectedStatus: http.StatusUnauthorized},
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic s3cret", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.POST("/cron/ping", RequireCronSecret("s3cret"), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			req := httptest.NewRequest(http.MethodPost, "/cron/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

type allowNone struct{}

func (allowNone) Allow(key string) bool { return false }

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/leads", RateLimit(allowNone{}, "leads"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/leads", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
}
