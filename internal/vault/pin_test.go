package vault

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/cryptox"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPinAuthority(t *testing.T) (*PinAuthority, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewPinAuthority(store, testLogger(), 15*time.Minute), store
}

func TestValidatePinFormat(t *testing.T) {
	tests := []struct {
		name string
		pin  string
		ok   bool
	}{
		{"valid minimal", "abc123", true},
		{"valid maximal", "a1b2c3d4e5f6", true},
		{"too short", "ab12", false},
		{"too long", "a1b2c3d4e5f6g", false},
		{"digits only", "123456", false},
		{"letters only", "abcdef", false},
		{"empty", "", false},
		{"letters digits symbols", "ab12!?", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePinFormat(tt.pin)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, common.ErrorInvalidPinFormat)
			}
		})
	}
}

func TestSetPinRejectsBadFormat(t *testing.T) {
	a, _ := newPinAuthority(t)
	err := a.SetPin(context.Background(), "123456")
	assert.ErrorIs(t, err, common.ErrorInvalidPinFormat)
	assert.False(t, a.IsPinSet(context.Background()))
}

func TestVerifySuccessResetsAttempts(t *testing.T) {
	ctx := context.Background()
	a, store := newPinAuthority(t)
	require.NoError(t, a.SetPin(ctx, "abc123"))

	ok, err := a.Verify(ctx, "wrong1")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = a.Verify(ctx, "abc123")
	require.NoError(t, err)
	require.True(t, ok)

	raw, err := store.Get(ctx, storage.KeyPinAttempts)
	require.NoError(t, err)
	assert.Equal(t, "0", string(raw))
}

func TestVerifyWithoutPinRecord(t *testing.T) {
	a, _ := newPinAuthority(t)
	ok, err := a.Verify(context.Background(), "abc123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyWipesAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	v, store := newTestVault(t)
	a := v.Pins()

	require.NoError(t, v.SavePassword(ctx, "example.com", "https://example.com", "alice", "pw"))
	require.NoError(t, store.Set(ctx, storage.KeyTotpList, []byte(`[{"id":"x","data":"y"}]`)))

	for i := 0; i < MaxPinAttempts-1; i++ {
		ok, err := a.Verify(ctx, "wrong1")
		require.NoError(t, err)
		require.False(t, ok)
	}

	// Fifth failure wipes and locks.
	ok, err := a.Verify(ctx, "wrong1")
	require.False(t, ok)
	require.ErrorIs(t, err, common.ErrorAttemptsExceeded)

	raw, err := store.Get(ctx, storage.KeyPasswords)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
	raw, err = store.Get(ctx, storage.KeyTotpList)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
	raw, err = store.Get(ctx, storage.KeyDataCards)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
	_, err = store.Get(ctx, storage.KeyPendingPasswordsKey)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// Sixth call inside the lockout window is refused even with the right PIN.
	ok, err = a.Verify(ctx, testPin)
	require.False(t, ok)
	require.ErrorIs(t, err, common.ErrorLockedOut)

	var locked *common.LockedOutError
	require.ErrorAs(t, err, &locked)
	assert.Greater(t, locked.MinutesLeft(), 0)
}

func TestVerifyAfterLockoutExpires(t *testing.T) {
	ctx := context.Background()
	a, _ := newPinAuthority(t)
	require.NoError(t, a.SetPin(ctx, "abc123"))

	for i := 0; i < MaxPinAttempts-1; i++ {
		_, err := a.Verify(ctx, "wrong1")
		require.NoError(t, err)
	}
	_, err := a.Verify(ctx, "wrong1")
	require.ErrorIs(t, err, common.ErrorAttemptsExceeded)

	// Jump past the lockout window.
	a.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	ok, err := a.Verify(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyUpgradesLegacyHash(t *testing.T) {
	ctx := context.Background()
	a, store := newPinAuthority(t)

	// Seed an unsalted legacy record.
	require.NoError(t, store.Set(ctx, storage.KeyPinHash, []byte(cryptox.LegacyPinHash("abc123"))))

	ok, err := a.Verify(ctx, "abc123")
	require.NoError(t, err)
	require.True(t, ok)

	raw, err := store.Get(ctx, storage.KeyPinHashAlg)
	require.NoError(t, err)
	assert.Equal(t, HashVersionPBKDF2, string(raw))
	_, err = store.Get(ctx, storage.KeyPinSalt)
	assert.NoError(t, err)

	// The upgraded record still verifies, and a legacy-shaped probe does not.
	ok, err = a.Verify(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = a.Verify(ctx, "abc124")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyCorruptedRecordTreatedAsUnset(t *testing.T) {
	ctx := context.Background()
	a, store := newPinAuthority(t)
	require.NoError(t, a.SetPin(ctx, "abc123"))
	require.NoError(t, store.Set(ctx, storage.KeyPinSalt, []byte("not-base64!!")))
	require.NoError(t, store.Set(ctx, storage.KeyPinAttempts, []byte("garbage")))

	// Unreadable salt drops the record to the legacy path, which fails
	// closed instead of erroring.
	ok, err := a.Verify(ctx, "abc123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConstantTimeEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"equal", "deadbeef", "deadbeef", true},
		{"differs early", "aeadbeef", "deadbeef", false},
		{"differs late", "deadbeea", "deadbeef", false},
		{"different lengths", "deadbeef", "deadbeef00", false},
		{"both empty", "", "", true},
		{"one empty", "", "a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, constantTimeEqual(tt.a, tt.b))
		})
	}
}

func TestLockedOutErrorUnwrapsToSentinel(t *testing.T) {
	err := &common.LockedOutError{Until: time.Now().Add(10 * time.Minute)}
	assert.True(t, errors.Is(err, common.ErrorLockedOut))
}
