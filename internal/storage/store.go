// Package storage defines the persisted key-value state of the vault and its
// backing implementations. The layout is flat: one well-known key per
// collection or scalar, values are opaque bytes (JSON for collections).
package storage

import "context"

// Well-known keys. Collections are stored as whole JSON values and replaced
// atomically on every write.
const (
	KeyPinHash        = "pinHash"
	KeyPinSalt        = "pinSalt"
	KeyPinHashAlg     = "pinHashAlg"
	KeyPinAttempts    = "pinAttempts"
	KeyPinLockedUntil = "pinLockedUntil"

	KeyPasswords           = "passwords"
	KeyDataCards           = "dataCards"
	KeyTotpList            = "totpList"
	KeyWhitelist           = "whitelist"
	KeyPendingPasswords    = "pendingPasswords"
	KeyPendingPasswordsKey = "pendingPasswordsKey"
	KeyPasswordCategories  = "passwordCategories"
	KeyPasswordTags        = "passwordTags"
	KeyGeneratorSettings   = "passwordGeneratorSettings"

	KeyBiometricEnabled      = "biometricEnabled"
	KeyBiometricCredentialID = "biometricCredentialId"
	KeyBiometricEncryptedPin = "biometricEncryptedPin"
	KeyBiometricPinKey       = "biometricPinKey"

	// NoncePrefix namespaces the self-expiring replay-protection entries.
	NoncePrefix = "nonce_"
)

// Store is a local key-value store. Implementations must be safe for
// concurrent use. Get returns common.ErrorNotFound for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// DeleteMany removes the given keys atomically: either all of them are
	// gone afterwards or none.
	DeleteMany(ctx context.Context, keys ...string) error

	// Keys lists the stored keys with the given prefix, in no particular
	// order. An empty prefix lists everything.
	Keys(ctx context.Context, prefix string) ([]string, error)

	Close() error
}
