package gateway

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/logging"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestReplayGuard() (*replayGuard, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	return newReplayGuard(store, testLogger(), 5*time.Minute, 10*time.Minute), store
}

func TestReplayGuardFreshRequest(t *testing.T) {
	g, _ := newTestReplayGuard()
	assert.NoError(t, g.check(context.Background(), time.Now().UnixMilli(), "nonce-1"))
}

func TestReplayGuardStaleTimestamp(t *testing.T) {
	g, _ := newTestReplayGuard()
	ctx := context.Background()

	old := time.Now().Add(-6 * time.Minute).UnixMilli()
	assert.ErrorIs(t, g.check(ctx, old, ""), common.ErrorStaleRequest)

	// Clock skew into the future is just as stale.
	future := time.Now().Add(6 * time.Minute).UnixMilli()
	assert.ErrorIs(t, g.check(ctx, future, ""), common.ErrorStaleRequest)

	// Within the window both directions pass.
	assert.NoError(t, g.check(ctx, time.Now().Add(-4*time.Minute).UnixMilli(), ""))
}

func TestReplayGuardMissingFieldsPass(t *testing.T) {
	g, _ := newTestReplayGuard()
	assert.NoError(t, g.check(context.Background(), 0, ""))
}

func TestReplayGuardRejectsSeenNonce(t *testing.T) {
	g, _ := newTestReplayGuard()
	ctx := context.Background()

	require.NoError(t, g.check(ctx, 0, "nonce-1"))
	assert.ErrorIs(t, g.check(ctx, 0, "nonce-1"), common.ErrorReplayDetected)

	// A different nonce is unaffected.
	assert.NoError(t, g.check(ctx, 0, "nonce-2"))
}

func TestReplayGuardNonceExpires(t *testing.T) {
	g, _ := newTestReplayGuard()
	ctx := context.Background()
	base := time.Now()
	g.now = func() time.Time { return base }

	require.NoError(t, g.check(ctx, 0, "nonce-1"))

	g.now = func() time.Time { return base.Add(11 * time.Minute) }
	assert.NoError(t, g.check(ctx, 0, "nonce-1"))
}

func TestReplayGuardSweepsExpiredEntries(t *testing.T) {
	g, store := newTestReplayGuard()
	ctx := context.Background()
	base := time.Now()
	g.now = func() time.Time { return base }

	require.NoError(t, g.check(ctx, 0, "nonce-1"))
	require.NoError(t, g.check(ctx, 0, "nonce-2"))

	g.now = func() time.Time { return base.Add(11 * time.Minute) }
	require.NoError(t, g.check(ctx, 0, "nonce-3"))

	keys, err := store.Keys(ctx, storage.NoncePrefix)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
	assert.Equal(t, storage.NoncePrefix+"nonce-3", keys[0])
}

func TestReplayGuardSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	g1 := newReplayGuard(store, testLogger(), 5*time.Minute, 10*time.Minute)
	require.NoError(t, g1.check(ctx, 0, "nonce-1"))

	// A new guard over the same store still knows the nonce.
	g2 := newReplayGuard(store, testLogger(), 5*time.Minute, 10*time.Minute)
	assert.ErrorIs(t, g2.check(ctx, 0, "nonce-1"), common.ErrorReplayDetected)
}
