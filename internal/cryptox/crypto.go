// Package cryptox implements the PIN-keyed record cipher: PBKDF2-SHA256 key
// derivation and AES-GCM sealing of opaque payloads into self-contained,
// base64-encoded blobs (salt ‖ iv ‖ ciphertext+tag).
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the per-blob random salt length in bytes.
	SaltSize = 16
	// IVSize is the AES-GCM nonce length in bytes.
	IVSize = 12
	// TagSize is the AES-GCM authentication tag length in bytes.
	TagSize = 16

	// RecordIterations is the PBKDF2 iteration count for record encryption
	// keys. PinIterations is the stronger count used for PIN hashing.
	// Both are fixed constants; changing either requires a versioned
	// migration of everything derived with it.
	RecordIterations = 100000
	PinIterations    = 200000

	keySize = 32
)

// minBlobSize is the smallest valid decoded blob: salt + iv + tag.
const minBlobSize = SaltSize + IVSize + TagSize

// DeriveRecordKey derives the AES-256 record key from a secret string and a
// per-blob salt. Keys are derived fresh for every seal/open call and must not
// be cached; callers should wipe the returned slice when done.
func DeriveRecordKey(secret string, salt []byte) []byte {
	return pbkdf2.Key([]byte(secret), salt, RecordIterations, keySize, sha256.New)
}

// ComputePinHash returns the hex-encoded PBKDF2 hash of a PIN under the given
// salt, using the PIN hashing iteration count.
func ComputePinHash(pin string, salt []byte) string {
	h := pbkdf2.Key([]byte(pin), salt, PinIterations, keySize, sha256.New)
	defer common.WipeByteArray(h)
	return hex.EncodeToString(h)
}

// LegacyPinHash returns the hex-encoded unsalted SHA-256 of a PIN. It exists
// only to verify records written before the salted PBKDF2 scheme; successful
// verification triggers an upgrade, never a new write at this version.
func LegacyPinHash(pin string) string {
	h := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(h[:])
}

// Seal encrypts plaintext under a key derived from secret, with a fresh
// random salt and IV per call, and returns the combined blob base64-encoded.
func Seal(plaintext []byte, secret string) (string, error) {
	salt := common.GenerateRandByteArray(SaltSize)
	iv := common.GenerateRandByteArray(IVSize)

	key := DeriveRecordKey(secret, salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	combined := make([]byte, 0, SaltSize+IVSize+len(plaintext)+TagSize)
	combined = append(combined, salt...)
	combined = append(combined, iv...)
	combined = aesgcm.Seal(combined, iv, plaintext, nil)

	return base64.StdEncoding.EncodeToString(combined), nil
}

// Open decodes a sealed blob, re-derives the key from the embedded salt and
// decrypts. Any failure — bad encoding, truncated blob, wrong secret or a
// tampered ciphertext — is reported as common.ErrorDecryption. The underlying
// cause is deliberately withheld so callers cannot be used as a decryption
// oracle.
func Open(blob string, secret string) ([]byte, error) {
	combined, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, common.ErrorDecryption
	}
	if len(combined) < minBlobSize {
		return nil, common.ErrorDecryption
	}

	salt := combined[:SaltSize]
	iv := combined[SaltSize : SaltSize+IVSize]
	ciphertext := combined[SaltSize+IVSize:]

	key := DeriveRecordKey(secret, salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, common.ErrorDecryption
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, common.ErrorDecryption
	}

	plaintext, err := aesgcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, common.ErrorDecryption
	}
	return plaintext, nil
}

// GenerateTempKey returns a random 64-character hex string used as a
// disposable encryption key for pending passwords and the biometric PIN blob.
// Like common.GenerateRandByteArray it panics when the system randomness
// source fails.
func GenerateTempKey() string {
	return hex.EncodeToString(common.GenerateRandByteArray(32))
}
