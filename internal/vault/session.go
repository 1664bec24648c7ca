package vault

import (
	"sync"
	"time"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/awnumar/memguard"
)

// DefaultSessionTTL is the sliding lifetime of the cached session PIN.
const DefaultSessionTTL = 5 * time.Minute

// SessionCache is the single-slot, process-wide holder of the last verified
// PIN. The PIN lives in a memguard enclave and is wiped on clear or expiry.
// Every successful Get refreshes the countdown (sliding expiration).
//
// All access must go through Set/Get/Clear; the cache is safe for concurrent
// use and last-write-wins on concurrent Set/Clear.
type SessionCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	enclave *memguard.Enclave
	timer   *time.Timer
}

// NewSessionCache returns an empty cache with the given sliding TTL.
// A non-positive ttl falls back to DefaultSessionTTL.
func NewSessionCache(ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionCache{ttl: ttl}
}

// Set stores the PIN and (re)starts the countdown. An empty PIN clears the
// slot instead.
func (c *SessionCache) Set(pin string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pin == "" {
		c.clearLocked()
		return
	}

	// NewEnclave wipes its input buffer, so the intermediate copy of the
	// PIN does not linger.
	c.enclave = memguard.NewEnclave([]byte(pin))
	c.resetTimerLocked()
}

// Get returns the cached PIN, refreshing the countdown. It fails with
// common.ErrorSessionRequired when the slot is empty or expired.
func (c *SessionCache) Get() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.enclave == nil {
		return "", common.ErrorSessionRequired
	}

	buf, err := c.enclave.Open()
	if err != nil {
		c.clearLocked()
		return "", common.ErrorSessionRequired
	}
	pin := string(buf.Bytes())
	buf.Destroy()

	c.resetTimerLocked()
	return pin, nil
}

// Active reports whether a PIN is currently cached, without refreshing the
// countdown.
func (c *SessionCache) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enclave != nil
}

// Clear scrubs the stored PIN and cancels the countdown.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *SessionCache) clearLocked() {
	c.enclave = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *SessionCache) resetTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.ttl, c.Clear)
}
