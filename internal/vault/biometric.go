package vault

import (
	"context"
	"errors"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/cryptox"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
)

// EnableBiometric records the platform credential ID and switches biometric
// unlock on. The encrypted-PIN blob is written separately by
// SaveBiometricPin once the user confirms their PIN.
func (v *Vault) EnableBiometric(ctx context.Context, credentialID string) error {
	if credentialID == "" {
		return errors.New("empty biometric credential id")
	}
	if err := v.store.Set(ctx, storage.KeyBiometricCredentialID, []byte(credentialID)); err != nil {
		return err
	}
	return v.store.Set(ctx, storage.KeyBiometricEnabled, []byte("true"))
}

// DisableBiometric switches biometric unlock off and scrubs the stored
// encrypted PIN and its key.
func (v *Vault) DisableBiometric(ctx context.Context) error {
	return v.store.DeleteMany(ctx,
		storage.KeyBiometricEnabled,
		storage.KeyBiometricCredentialID,
		storage.KeyBiometricEncryptedPin,
		storage.KeyBiometricPinKey,
	)
}

// BiometricEnabled reports whether biometric unlock is switched on.
func (v *Vault) BiometricEnabled(ctx context.Context) bool {
	raw, err := v.store.Get(ctx, storage.KeyBiometricEnabled)
	return err == nil && string(raw) == "true"
}

// SaveBiometricPin seals the verified PIN under a fresh random key so a
// later biometric assertion can recover it without re-prompting. The PIN is
// verified first; a wrong PIN is not stored.
func (v *Vault) SaveBiometricPin(ctx context.Context, pin string) error {
	ok, err := v.pins.Verify(ctx, pin)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorWrongPin
	}

	key := cryptox.GenerateTempKey()
	sealed, err := cryptox.Seal([]byte(pin), key)
	if err != nil {
		return err
	}
	if err := v.store.Set(ctx, storage.KeyBiometricEncryptedPin, []byte(sealed)); err != nil {
		return err
	}
	return v.store.Set(ctx, storage.KeyBiometricPinKey, []byte(key))
}

// AuthenticateBiometric completes a biometric unlock after the caller has
// verified the platform assertion. When a stored PIN can be recovered and
// still verifies, the session is unlocked and the PIN returned; otherwise
// the result asks for manual PIN entry.
func (v *Vault) AuthenticateBiometric(ctx context.Context) (*BiometricResult, error) {
	if !v.BiometricEnabled(ctx) {
		return nil, errors.New("biometric unlock not enabled")
	}

	requirePin := &BiometricResult{Verified: true, RequiresPin: true}

	blob, err := v.store.Get(ctx, storage.KeyBiometricEncryptedPin)
	if errors.Is(err, common.ErrorNotFound) {
		return requirePin, nil
	}
	if err != nil {
		return nil, err
	}
	key, err := v.store.Get(ctx, storage.KeyBiometricPinKey)
	if errors.Is(err, common.ErrorNotFound) {
		return requirePin, nil
	}
	if err != nil {
		return nil, err
	}

	plain, err := cryptox.Open(string(blob), string(key))
	if err != nil {
		v.logger.Warn(ctx, "stored biometric pin unreadable, falling back to manual entry")
		return requirePin, nil
	}
	pin := string(plain)

	ok, err := v.pins.Verify(ctx, pin)
	if err != nil {
		return nil, err
	}
	if !ok {
		// PIN changed since it was stored; the stale blob is useless.
		v.logger.Warn(ctx, "stored biometric pin no longer valid")
		return requirePin, nil
	}

	v.session.Set(pin)
	return &BiometricResult{Pin: pin, Verified: true}, nil
}
