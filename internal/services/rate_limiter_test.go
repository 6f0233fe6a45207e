package services

import (
	"testing"
	"time"
)

func TestRateLimiterImpl_Allow(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("leads:1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("leads:1.2.3.4") {
		t.Error("request over the limit was allowed")
	}

	// Other keys are unaffected.
	if !limiter.Allow("leads:5.6.7.8") {
		t.Error("separate key should have its own window")
	}
	if !limiter.Allow("otp:1.2.3.4") {
		t.Error("separate route should have its own window")
	}
}

func TestRateLimiterImpl_WindowResets(t *testing.T) {
	limiter := NewRateLimiter(30*time.Millisecond, 1)

	if !limiter.Allow("k") {
		t.Fatal("first request blocked")
	}
	if limiter.Allow("k") {
		t.Fatal("second request in window allowed")
	}

	time.Sleep(50 * time.Millisecond)
	if !limiter.Allow("k") {
		t.Error("request after window expiry blocked")
	}
}
