package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/plumbsvc/domain"
)

const (
	testHashKey  = "test-hash-key-0123456789abcdef0123456789abcdef0123456789abcdef01"
	testBlockKey = "test-block-key-0123456789abcdef0"
)

func newCookieServiceForTest(t *testing.T, ttl time.Duration) *CookieService {
	t.Helper()

	svc, err := NewCookieService(testHashKey, testBlockKey, ttl, false)
	if err != nil {
		t.Fatalf("NewCookieService: %v", err)
	}
	return svc
}

// issueCookie issues the session and returns the Set-Cookie value.
func issueCookie(t *testing.T, svc *CookieService, session *domain.Session) *http.Cookie {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if err := svc.Issue(c, session); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cookies := w.Result().Cookies()
	for _, cookie := range cookies {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestCookieService_RoundTrip(t *testing.T) {
	svc := newCookieServiceForTest(t, time.Hour)

	session := &domain.Session{
		CustomerID:           42,
		AvailableCustomerIDs: []int64{42, 77},
	}
	cookie := issueCookie(t, svc, session)

	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	got := svc.Read(req)
	if got.CustomerID != 42 {
		t.Errorf("expected customer id 42, got %d", got.CustomerID)
	}
	if len(got.AvailableCustomerIDs) != 2 || got.AvailableCustomerIDs[1] != 77 {
		t.Errorf("ownership set not preserved: %v", got.AvailableCustomerIDs)
	}
	if !got.Authenticated() {
		t.Error("expected authenticated session")
	}
}

func TestCookieService_Read_NeverErrors(t *testing.T) {
	svc := newCookieServiceForTest(t, time.Hour)
	valid := issueCookie(t, svc, &domain.Session{CustomerID: 42})

	otherSvc, err := NewCookieService(
		"other-hash-key-0123456789abcdef0123456789abcdef0123456789abcdef0",
		"other-block-key-0123456789abcdef", time.Hour, false)
	if err != nil {
		t.Fatalf("NewCookieService: %v", err)
	}
	foreign := issueCookie(t, otherSvc, &domain.Session{CustomerID: 99})

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "no cookie", cookie: nil},
		{name: "garbage value", cookie: &http.Cookie{Name: sessionCookieName, Value: "not-a-session"}},
		{
			name:   "tampered value",
			cookie: &http.Cookie{Name: sessionCookieName, Value: "A" + valid.Value[1:]},
		},
		{name: "signed with different keys", cookie: foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			got := svc.Read(req)
			if got == nil {
				t.Fatal("Read returned nil; must return an anonymous session")
			}
			if got.Authenticated() {
				t.Error("invalid cookie must yield an anonymous session")
			}
			if got.CustomerID != 0 || got.IsAdmin {
				t.Errorf("anonymous session carries identity: %+v", got)
			}
		})
	}
}

func TestCookieService_Read_Expired(t *testing.T) {
	svc := newCookieServiceForTest(t, -time.Minute)
	cookie := issueCookie(t, svc, &domain.Session{CustomerID: 42})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	if got := svc.Read(req); got.Authenticated() {
		t.Error("expired session must read as anonymous")
	}
}

func TestCookieService_Clear(t *testing.T) {
	svc := newCookieServiceForTest(t, time.Hour)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	svc.Clear(c)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected deletion cookie, got %+v", cookies)
	}
}

func TestNewCookieService_RequiresKeys(t *testing.T) {
	if _, err := NewCookieService("", testBlockKey, time.Hour, false); err == nil {
		t.Error("expected error for missing hash key")
	}
	if _, err := NewCookieService(testHashKey, "", time.Hour, false); err == nil {
		t.Error("expected error for missing block key")
	}
}
