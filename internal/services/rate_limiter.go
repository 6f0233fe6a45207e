package services

import (
	"sync"
	"time"
)

// RateLimiterImpl implements domain.RateLimiter as a fixed-window counter
// map. The map is in-process and mutated only under the mutex between
// suspension points; like the sync lock it is an injectable singleton so a
// shared store could replace it.
type RateLimiterImpl struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	buckets map[string]*bucket
}

type bucket struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a new fixed-window rate limiter
func NewRateLimiter(window time.Duration, max int) *RateLimiterImpl {
	return &RateLimiterImpl{
		window:  window,
		max:     max,
		buckets: make(map[string]*bucket),
	}
}

// Allow implements domain.RateLimiter
func (r *RateLimiterImpl) Allow(key string) bool {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[key]
	if !ok || now.After(b.resetAt) {
		r.buckets[key] = &bucket{count: 1, resetAt: now.Add(r.window)}
		r.sweepLocked(now)
		return true
	}

	if b.count >= r.max {
		return false
	}
	b.count++
	return true
}

// sweepLocked drops expired buckets so the map does not grow unbounded.
func (r *RateLimiterImpl) sweepLocked(now time.Time) {
	if len(r.buckets) < 10000 {
		return
	}
	for key, b := range r.buckets {
		if now.After(b.resetAt) {
			delete(r.buckets, key)
		}
	}
}
