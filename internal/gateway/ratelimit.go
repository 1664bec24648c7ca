package gateway

import (
	"sync"
	"time"
)

// rateLimiter is a fixed-window request counter keyed by sender identity.
// The window for a key starts at its first request and resets once elapsed.
type rateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	now     func() time.Time
	buckets map[string]*bucket
}

type bucket struct {
	start time.Time
	count int
}

func newRateLimiter(windowSize time.Duration, max int) *rateLimiter {
	return &rateLimiter{
		window:  windowSize,
		max:     max,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// allow counts one request for key and reports whether it fits the window.
func (l *rateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.start) >= l.window {
		l.buckets[key] = &bucket{start: now, count: 1}
		return l.max >= 1
	}
	b.count++
	return b.count <= l.max
}

// fail counts one failed attempt without the implicit allow bookkeeping;
// used by the PIN limiter, which only counts failures.
func (l *rateLimiter) fail(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.Sub(b.start) >= l.window {
		l.buckets[key] = &bucket{start: now, count: 1}
		return
	}
	b.count++
}

// blocked reports whether key has exhausted its window budget.
func (l *rateLimiter) blocked(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || l.now().Sub(b.start) >= l.window {
		return false
	}
	return b.count >= l.max
}

// reset forgets the key, e.g. after a successful PIN verification.
func (l *rateLimiter) reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// sweepLocked drops expired windows so idle senders do not accumulate.
func (l *rateLimiter) sweepLocked(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.start) >= l.window {
			delete(l.buckets, k)
		}
	}
}
