// Package totp generates RFC 6238 time-based one-time codes from stored
// authenticator secrets. It is a pure consumer: given a secret and a clock it
// produces a code, with no state and no storage access.
package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	// DefaultTimeStep is the RFC 6238 recommended step.
	DefaultTimeStep = 30 * time.Second
	// DefaultDigits is the common authenticator code length.
	DefaultDigits = 6
)

var (
	base32Pattern = regexp.MustCompile(`^[A-Z2-7]+=*$`)
	hexPattern    = regexp.MustCompile(`^[0-9A-F]+$`)

	base32NoPad = base32.StdEncoding.WithPadding(base32.NoPadding)
)

// normalizeSecret strips all whitespace and upper-cases the secret.
func normalizeSecret(secret string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, secret)
	return strings.ToUpper(cleaned)
}

// DecodeSecret decodes an authenticator secret. Base32 is tried first, then
// hex; anything else is rejected.
func DecodeSecret(secret string) ([]byte, error) {
	cleaned := normalizeSecret(secret)
	if cleaned == "" {
		return nil, fmt.Errorf("empty totp secret")
	}

	if base32Pattern.MatchString(cleaned) {
		key, err := base32NoPad.DecodeString(strings.TrimRight(cleaned, "="))
		if err == nil {
			return key, nil
		}
	}

	if hexPattern.MatchString(cleaned) && len(cleaned)%2 == 0 {
		return hex.DecodeString(cleaned)
	}

	return nil, fmt.Errorf("invalid totp secret format")
}

// IsValidSecret reports whether secret looks like a Base32 or hex encoded
// key after whitespace stripping.
func IsValidSecret(secret string) bool {
	cleaned := normalizeSecret(secret)
	if cleaned == "" {
		return false
	}
	return base32Pattern.MatchString(cleaned) || hexPattern.MatchString(cleaned)
}

// GenerateCode returns the code for the default step and digit count at the
// given time.
func GenerateCode(secret string, now time.Time) (string, error) {
	return GenerateCodeAt(secret, now, DefaultTimeStep, DefaultDigits)
}

// GenerateCodeAt computes HMAC-SHA1 over the big-endian counter
// floor(unix/timeStep) and applies RFC 4226 dynamic truncation, zero-padding
// the result to digits.
func GenerateCodeAt(secret string, now time.Time, timeStep time.Duration, digits int) (string, error) {
	key, err := DecodeSecret(secret)
	if err != nil {
		return "", err
	}
	if timeStep <= 0 {
		timeStep = DefaultTimeStep
	}
	if digits <= 0 {
		digits = DefaultDigits
	}

	counter := uint64(now.Unix()) / uint64(timeStep/time.Second)

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	binCode := (uint32(sum[offset])&0x7f)<<24 |
		uint32(sum[offset+1])<<16 |
		uint32(sum[offset+2])<<8 |
		uint32(sum[offset+3])

	mod := uint32(1)
	for i := 0; i < digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", digits, binCode%mod), nil
}

// TimeRemaining returns the seconds left in the current step window.
func TimeRemaining(now time.Time, timeStep time.Duration) int {
	if timeStep <= 0 {
		timeStep = DefaultTimeStep
	}
	step := int64(timeStep / time.Second)
	return int(step - now.Unix()%step)
}
