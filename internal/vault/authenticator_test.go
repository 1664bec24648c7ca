package vault

import (
	"context"
	"testing"
	"time"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotpEntryCRUD(t *testing.T) {
	ctx := context.Background()
	v, store := newTestVault(t)

	id, err := v.SaveTotp(ctx, TotpEntry{
		Service: "github",
		Login:   "alice",
		Secret:  "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// The secret is sealed at rest.
	raw, err := store.Get(ctx, storage.KeyTotpList)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "GEZDGNBV")

	entries, err := v.GetAllTotp(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, "github", entries[0].Service)
	assert.Equal(t, "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", entries[0].Secret)
	assert.NotZero(t, entries[0].CreatedAt)

	created := entries[0].CreatedAt
	err = v.UpdateTotp(ctx, id, TotpEntry{Service: "github", Login: "alice@work", Secret: entries[0].Secret})
	require.NoError(t, err)

	entries, err = v.GetAllTotp(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice@work", entries[0].Login)
	assert.Equal(t, created, entries[0].CreatedAt)

	require.NoError(t, v.DeleteTotp(ctx, id))
	entries, err = v.GetAllTotp(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateTotpNotFound(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)
	err := v.UpdateTotp(ctx, "missing", TotpEntry{Service: "x"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTotpRequiresSession(t *testing.T) {
	ctx := context.Background()
	v, _ := newLockedVault(t)

	_, err := v.SaveTotp(ctx, TotpEntry{Service: "x", Secret: "ABCD"})
	assert.ErrorIs(t, err, common.ErrorSessionRequired)
	_, err = v.GetAllTotp(ctx)
	assert.ErrorIs(t, err, common.ErrorSessionRequired)
}

func TestDeleteTotpWithoutSession(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	id, err := v.SaveTotp(ctx, TotpEntry{Service: "x", Secret: "ABCD"})
	require.NoError(t, err)

	v.Session().Clear()
	assert.NoError(t, v.DeleteTotp(ctx, id))
}

func TestSaveTotpTimestamps(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	fixed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	v.now = func() time.Time { return fixed }

	id, err := v.SaveTotp(ctx, TotpEntry{Service: "x", Secret: "ABCD", CreatedAt: 42})
	require.NoError(t, err)

	entries, err := v.GetAllTotp(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	// Caller-supplied timestamps are ignored on save.
	assert.Equal(t, fixed.UnixMilli(), entries[0].CreatedAt)
	assert.Equal(t, fixed.UnixMilli(), entries[0].UpdatedAt)
}
