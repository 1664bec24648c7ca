package vault

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/cryptox"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/logging"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
)

const (
	// MaxPinAttempts is the persisted failed-attempt budget; reaching it
	// wipes the vault contents and starts a lockout.
	MaxPinAttempts = 5

	// HashVersionPBKDF2 tags PIN records hashed with salted PBKDF2.
	// Records without this tag are legacy unsalted SHA-256 and are
	// upgraded on their next successful verification.
	HashVersionPBKDF2 = "pbkdf2-v1"

	minPinLen = 6
	maxPinLen = 12

	// dummyHash is compared against when no PIN record exists, so a probe
	// cannot distinguish "no PIN" from "wrong PIN" by timing.
	dummyHash = "0000000000000000000000000000000000000000000000000000000000000000"
)

// PinAuthority owns the persisted PIN record: it sets and verifies PINs,
// counts failed attempts and performs the destructive wipe once the budget is
// exhausted.
type PinAuthority struct {
	store   storage.Store
	logger  logging.Logger
	lockout time.Duration
	now     func() time.Time
}

// NewPinAuthority builds a PinAuthority over the given store. lockout is the
// cooldown applied after the attempt budget is exhausted.
func NewPinAuthority(store storage.Store, logger logging.Logger, lockout time.Duration) *PinAuthority {
	return &PinAuthority{
		store:   store,
		logger:  logger.With("component", "pin"),
		lockout: lockout,
		now:     time.Now,
	}
}

// pinRecord is the in-memory form of the persisted PIN state. A zero record
// means "PIN not set"; a corrupted persisted record is read as zero.
type pinRecord struct {
	Hash        string
	Salt        []byte
	Alg         string
	Attempts    int
	LockedUntil time.Time
}

// ValidatePinFormat checks the PIN shape: 6-12 characters with at least one
// digit and at least one letter.
func ValidatePinFormat(pin string) error {
	n := utf8.RuneCountInString(pin)
	if n < minPinLen || n > maxPinLen {
		return common.ErrorInvalidPinFormat
	}
	var hasDigit, hasLetter bool
	for _, r := range pin {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}
	if !hasDigit || !hasLetter {
		return common.ErrorInvalidPinFormat
	}
	return nil
}

// IsPinSet reports whether a PIN record exists.
func (a *PinAuthority) IsPinSet(ctx context.Context) bool {
	_, err := a.store.Get(ctx, storage.KeyPinHash)
	return err == nil
}

// SetPin validates the PIN shape and writes a fresh record at the current
// hash version, resetting the attempt counter and any lockout. Any prior
// record is overwritten; callers enforce old-PIN verification before a
// change.
func (a *PinAuthority) SetPin(ctx context.Context, pin string) error {
	if err := ValidatePinFormat(pin); err != nil {
		return err
	}
	if err := a.writeRecord(ctx, pin); err != nil {
		return fmt.Errorf("failed to persist pin record: %w", err)
	}
	a.logger.Info(ctx, "pin record written", "alg", HashVersionPBKDF2)
	return nil
}

// Verify checks a candidate PIN against the stored record.
//
// Returns (true, nil) on success, (false, nil) on a recoverable wrong PIN,
// a LockedOutError while a lockout is active, and
// common.ErrorAttemptsExceeded when this failure exhausts the budget — in
// which case all credential, data-card, TOTP and pending storage has been
// wiped.
//
// The hash comparison runs in constant time over max(len) and a dummy
// comparison of equal cost runs even when no record exists.
func (a *PinAuthority) Verify(ctx context.Context, pin string) (bool, error) {
	rec := a.loadRecord(ctx)

	if !rec.LockedUntil.IsZero() && a.now().Before(rec.LockedUntil) {
		return false, &common.LockedOutError{Until: rec.LockedUntil}
	}

	stored := rec.Hash
	if stored == "" {
		stored = dummyHash
	}

	var candidate string
	legacy := false
	if len(rec.Salt) > 0 && rec.Alg == HashVersionPBKDF2 {
		candidate = cryptox.ComputePinHash(pin, rec.Salt)
	} else {
		candidate = cryptox.LegacyPinHash(pin)
		legacy = true
	}

	valid := constantTimeEqual(candidate, stored) && rec.Hash != ""

	if valid {
		if legacy {
			// Upgrade transition: re-hash under the salted scheme.
			if err := a.writeRecord(ctx, pin); err != nil {
				a.logger.Error(ctx, "legacy pin upgrade failed", "error", err.Error())
			} else {
				a.logger.Info(ctx, "legacy pin hash upgraded", "alg", HashVersionPBKDF2)
			}
		}
		if err := a.resetAttempts(ctx); err != nil {
			return false, fmt.Errorf("failed to reset attempts: %w", err)
		}
		return true, nil
	}

	attempts := rec.Attempts + 1
	if attempts >= MaxPinAttempts {
		if err := a.wipeVault(ctx); err != nil {
			return false, fmt.Errorf("failed to wipe vault: %w", err)
		}
		lockedUntil := a.now().Add(a.lockout)
		if err := a.persistAttempts(ctx, attempts, lockedUntil); err != nil {
			return false, fmt.Errorf("failed to persist lockout: %w", err)
		}
		a.logger.Warn(ctx, "pin attempts exhausted, vault wiped", "attempts", attempts)
		return false, common.ErrorAttemptsExceeded
	}

	if err := a.persistAttempts(ctx, attempts, time.Time{}); err != nil {
		return false, fmt.Errorf("failed to persist attempts: %w", err)
	}
	return false, nil
}

// constantTimeEqual compares two hex strings by XOR accumulation over the
// maximum of both lengths: the scan never stops at the first mismatch and
// runs the same number of iterations for equal-length inputs regardless of
// where they differ.
func constantTimeEqual(a, b string) bool {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	var result byte
	for i := 0; i < maxLen; i++ {
		var ca, cb byte
		if i < len(a) {
			ca = a[i]
		}
		if i < len(b) {
			cb = b[i]
		}
		result |= ca ^ cb
	}
	if len(a) != len(b) {
		result |= 1
	}
	return result == 0
}

func (a *PinAuthority) loadRecord(ctx context.Context) pinRecord {
	var rec pinRecord

	if v, err := a.store.Get(ctx, storage.KeyPinHash); err == nil {
		rec.Hash = string(v)
	}
	if v, err := a.store.Get(ctx, storage.KeyPinSalt); err == nil {
		if salt, err := base64.StdEncoding.DecodeString(string(v)); err == nil {
			rec.Salt = salt
		}
	}
	if v, err := a.store.Get(ctx, storage.KeyPinHashAlg); err == nil {
		rec.Alg = string(v)
	}
	if v, err := a.store.Get(ctx, storage.KeyPinAttempts); err == nil {
		if n, err := strconv.Atoi(string(v)); err == nil && n >= 0 {
			rec.Attempts = n
		}
	}
	if v, err := a.store.Get(ctx, storage.KeyPinLockedUntil); err == nil {
		if ms, err := strconv.ParseInt(string(v), 10, 64); err == nil && ms > 0 {
			rec.LockedUntil = time.UnixMilli(ms)
		}
	}
	return rec
}

func (a *PinAuthority) writeRecord(ctx context.Context, pin string) error {
	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	hash := cryptox.ComputePinHash(pin, salt)

	if err := a.store.Set(ctx, storage.KeyPinHash, []byte(hash)); err != nil {
		return err
	}
	if err := a.store.Set(ctx, storage.KeyPinSalt, []byte(base64.StdEncoding.EncodeToString(salt))); err != nil {
		return err
	}
	if err := a.store.Set(ctx, storage.KeyPinHashAlg, []byte(HashVersionPBKDF2)); err != nil {
		return err
	}
	return a.resetAttempts(ctx)
}

func (a *PinAuthority) resetAttempts(ctx context.Context) error {
	if err := a.store.Set(ctx, storage.KeyPinAttempts, []byte("0")); err != nil {
		return err
	}
	return a.store.Delete(ctx, storage.KeyPinLockedUntil)
}

func (a *PinAuthority) persistAttempts(ctx context.Context, attempts int, lockedUntil time.Time) error {
	if err := a.store.Set(ctx, storage.KeyPinAttempts, []byte(strconv.Itoa(attempts))); err != nil {
		return err
	}
	if lockedUntil.IsZero() {
		return a.store.Delete(ctx, storage.KeyPinLockedUntil)
	}
	return a.store.Set(ctx, storage.KeyPinLockedUntil,
		[]byte(strconv.FormatInt(lockedUntil.UnixMilli(), 10)))
}

// wipeVault destroys all credential, data-card, TOTP and pending storage.
// The PIN record itself survives so the user can try again after the lockout.
func (a *PinAuthority) wipeVault(ctx context.Context) error {
	var errs []error
	errs = append(errs, a.store.Set(ctx, storage.KeyPasswords, []byte("{}")))
	errs = append(errs, a.store.Set(ctx, storage.KeyDataCards, []byte("[]")))
	errs = append(errs, a.store.Set(ctx, storage.KeyTotpList, []byte("[]")))
	errs = append(errs, a.store.Set(ctx, storage.KeyPendingPasswords, []byte("[]")))
	errs = append(errs, a.store.Delete(ctx, storage.KeyPendingPasswordsKey))
	return errors.Join(errs...)
}
