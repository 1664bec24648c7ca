// Package strength estimates password strength via zxcvbn.
package strength

import (
	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// Result is a caller-friendly slice of the zxcvbn estimate.
type Result struct {
	// Score ranges 0 (trivially guessable) to 4 (strong).
	Score int `json:"score"`
	// Entropy is the estimated entropy in bits.
	Entropy float64 `json:"entropy"`
	// CrackTimeDisplay is a human-readable crack time, e.g. "centuries".
	CrackTimeDisplay string `json:"crackTimeDisplay"`
}

// Estimate scores a password. userInputs lists strings that should be treated
// as guessable context (username, domain, etc.).
func Estimate(password string, userInputs ...string) Result {
	m := zxcvbn.PasswordStrength(password, userInputs)
	return Result{
		Score:            m.Score,
		Entropy:          m.Entropy,
		CrackTimeDisplay: m.CrackTimeDisplay,
	}
}
