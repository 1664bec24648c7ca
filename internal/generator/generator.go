// Package generator produces random passwords from configurable character
// classes, using crypto/rand for every random choice.
package generator

import (
	"crypto/rand"
	"math/big"
)

const (
	// MinLength and MaxLength clamp the requested password length.
	MinLength = 8
	MaxLength = 128
	// DefaultLength is used when no length is configured.
	DefaultLength = 16
)

type charSets struct {
	uppercase string
	lowercase string
	numbers   string
	special   string
}

// fullSets contains the complete classes; similarSafeSets drops characters
// that are easy to confuse (0/O, 1/l/I).
var (
	fullSets = charSets{
		uppercase: "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		lowercase: "abcdefghijklmnopqrstuvwxyz",
		numbers:   "0123456789",
		special:   "!@#$%^&*()_+-=[]{}|;:,.<>?",
	}
	similarSafeSets = charSets{
		uppercase: "ABCDEFGHJKLMNPQRSTUVWXYZ",
		lowercase: "abcdefghijkmnopqrstuvwxyz",
		numbers:   "23456789",
		special:   "!@#$%^&*()_+-=[]{}|;:,.<>?",
	}
)

// Settings selects the character classes and length for generated passwords.
// The zero value disables every class; use DefaultSettings as the baseline.
type Settings struct {
	Length           int  `json:"length"`
	IncludeUppercase bool `json:"includeUppercase"`
	IncludeLowercase bool `json:"includeLowercase"`
	IncludeNumbers   bool `json:"includeNumbers"`
	IncludeSpecial   bool `json:"includeSpecial"`
	ExcludeSimilar   bool `json:"excludeSimilar"`
}

// DefaultSettings returns the default generator configuration.
func DefaultSettings() Settings {
	return Settings{
		Length:           DefaultLength,
		IncludeUppercase: true,
		IncludeLowercase: true,
		IncludeNumbers:   true,
		IncludeSpecial:   true,
		ExcludeSimilar:   true,
	}
}

// Generate returns a random password per the settings. The password contains
// at least one character from every enabled class (when length permits).
// An empty string is returned when no class is enabled.
func Generate(settings Settings) (string, error) {
	length := settings.Length
	if length == 0 {
		length = DefaultLength
	}
	if length < MinLength {
		length = MinLength
	}
	if length > MaxLength {
		length = MaxLength
	}

	sets := fullSets
	if settings.ExcludeSimilar {
		sets = similarSafeSets
	}

	var available string
	var required []string
	if settings.IncludeUppercase {
		available += sets.uppercase
		required = append(required, sets.uppercase)
	}
	if settings.IncludeLowercase {
		available += sets.lowercase
		required = append(required, sets.lowercase)
	}
	if settings.IncludeNumbers {
		available += sets.numbers
		required = append(required, sets.numbers)
	}
	if settings.IncludeSpecial {
		available += sets.special
		required = append(required, sets.special)
	}
	if available == "" {
		return "", nil
	}

	password := make([]byte, length)
	for i := range password {
		idx, err := randInt(len(available))
		if err != nil {
			return "", err
		}
		password[i] = available[idx]
	}

	// Guarantee one character from each enabled class. Distinct leading
	// positions are used so later classes cannot overwrite earlier ones;
	// the shuffle below removes the positional bias.
	for i := 0; i < len(required) && i < length; i++ {
		cIdx, err := randInt(len(required[i]))
		if err != nil {
			return "", err
		}
		password[i] = required[i][cIdx]
	}

	// Fisher-Yates shuffle so the forced characters have no fixed bias.
	for i := length - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
