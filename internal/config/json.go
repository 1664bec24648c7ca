package config

import (
	"encoding/json"
	"os"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/flagx"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be given as strings like "5m" or as integer nanoseconds. Absent fields keep
// their current (default) values.
type JsonConfig struct {
	StorePath        *string         `json:"store_path"`
	RuntimeID        *string         `json:"runtime_id"`
	SessionTTL       *timex.Duration `json:"session_ttl"`
	RateLimitWindow  *timex.Duration `json:"rate_limit_window"`
	RateLimitMax     *int            `json:"rate_limit_max"`
	PinAttemptWindow *timex.Duration `json:"pin_attempt_window"`
	PinAttemptMax    *int            `json:"pin_attempt_max"`
	RequestMaxAge    *timex.Duration `json:"request_max_age"`
	NonceTTL         *timex.Duration `json:"nonce_ttl"`
	LockoutDuration  *timex.Duration `json:"lockout_duration"`
	PendingHorizon   *timex.Duration `json:"pending_horizon"`
}

// parseJson overlays cfg with values from the JSON file named by the -c or
// -config flag. With no such flag it is a no-op. Read or unmarshal errors
// panic, matching flag-parse behavior.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.StorePath != nil {
		cfg.StorePath = *jc.StorePath
	}
	if jc.RuntimeID != nil {
		cfg.RuntimeID = *jc.RuntimeID
	}
	if jc.SessionTTL != nil {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.RateLimitWindow != nil {
		cfg.RateLimitWindow = jc.RateLimitWindow.Duration
	}
	if jc.RateLimitMax != nil {
		cfg.RateLimitMax = *jc.RateLimitMax
	}
	if jc.PinAttemptWindow != nil {
		cfg.PinAttemptWindow = jc.PinAttemptWindow.Duration
	}
	if jc.PinAttemptMax != nil {
		cfg.PinAttemptMax = *jc.PinAttemptMax
	}
	if jc.RequestMaxAge != nil {
		cfg.RequestMaxAge = jc.RequestMaxAge.Duration
	}
	if jc.NonceTTL != nil {
		cfg.NonceTTL = jc.NonceTTL.Duration
	}
	if jc.LockoutDuration != nil {
		cfg.LockoutDuration = jc.LockoutDuration.Duration
	}
	if jc.PendingHorizon != nil {
		cfg.PendingHorizon = jc.PendingHorizon.Duration
	}
}
