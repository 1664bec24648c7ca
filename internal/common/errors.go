// Package common defines shared constants, sentinel errors and small helpers
// used across the vault engine. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Gateway-level errors.
	ErrorUnauthorizedSender = errors.New("unauthorized sender")
	ErrorRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrorReplayDetected     = errors.New("replay detected")
	ErrorStaleRequest       = errors.New("stale request")
	ErrorUnknownAction      = errors.New("unknown action")

	// PIN / session errors.
	ErrorSessionRequired  = errors.New("session pin required")
	ErrorPinNotSet        = errors.New("pin not set")
	ErrorInvalidPinFormat = errors.New("invalid pin format")
	ErrorWrongPin         = errors.New("wrong pin")
	ErrorLockedOut        = errors.New("pin locked")
	ErrorAttemptsExceeded = errors.New("attempts exceeded, vault wiped")

	// Vault / storage errors.
	ErrorDecryption        = errors.New("decryption failed")
	ErrorNotFound          = errors.New("not found")
	ErrorWhitelistedDomain = errors.New("domain is whitelisted")
)

// LockedOutError reports an active PIN lockout together with the time the
// lock expires. It matches ErrorLockedOut under errors.Is.
type LockedOutError struct {
	Until time.Time
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("pin locked, try again in %d min", e.MinutesLeft())
}

func (e *LockedOutError) Is(target error) bool {
	return target == ErrorLockedOut
}

// MinutesLeft returns the remaining lockout time rounded up to whole minutes,
// never less than 1 while the lock is active.
func (e *LockedOutError) MinutesLeft() int {
	left := time.Until(e.Until)
	if left <= 0 {
		return 0
	}
	m := int((left + time.Minute - 1) / time.Minute)
	if m < 1 {
		m = 1
	}
	return m
}
