// Package config holds the runtime settings of the vault engine. Values are
// resolved in three stages — built-in defaults, then a JSON file (if one is
// given via -c/-config), then command-line flags — with later stages taking
// precedence.
package config

import "time"

// Config holds the tunables of the vault engine.
//
// The protocol limits (rate limiting, replay protection, PIN attempt budget)
// mirror the persisted-state contract and should only be changed together
// with the documented protocol behavior.
type Config struct {
	// StorePath is the sqlite database path backing the key-value store.
	StorePath string
	// RuntimeID is the extension runtime identity trusted as "own" sender.
	RuntimeID string

	// SessionTTL is the sliding lifetime of the cached session PIN.
	SessionTTL time.Duration

	// RateLimitWindow / RateLimitMax bound all inbound requests per sender.
	RateLimitWindow time.Duration
	RateLimitMax    int

	// PinAttemptWindow / PinAttemptMax bound PIN verification attempts per
	// sender, independently of the persisted failed-attempts counter.
	PinAttemptWindow time.Duration
	PinAttemptMax    int

	// RequestMaxAge rejects replay-guarded requests with an older timestamp.
	RequestMaxAge time.Duration
	// NonceTTL is how long a seen nonce stays in the replay set.
	NonceTTL time.Duration

	// LockoutDuration is the lockout applied after the attempt budget is
	// exhausted (alongside the destructive wipe).
	LockoutDuration time.Duration

	// PendingHorizon is the maximum age of queued pending passwords.
	PendingHorizon time.Duration
}

// LoadDefaults populates c with the documented defaults.
func (c *Config) LoadDefaults() {
	c.StorePath = "vault.db"
	c.RuntimeID = ""
	c.SessionTTL = 5 * time.Minute
	c.RateLimitWindow = time.Minute
	c.RateLimitMax = 30
	c.PinAttemptWindow = 15 * time.Minute
	c.PinAttemptMax = 5
	c.RequestMaxAge = 5 * time.Minute
	c.NonceTTL = 10 * time.Minute
	c.LockoutDuration = 15 * time.Minute
	c.PendingHorizon = 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
