package gateway

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/logging"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
)

// replayGuard rejects stale and replayed requests. Seen nonces are persisted
// so a restart does not reopen the replay window; each entry self-expires.
type replayGuard struct {
	store    storage.Store
	logger   logging.Logger
	maxAge   time.Duration
	nonceTTL time.Duration
	now      func() time.Time
}

func newReplayGuard(store storage.Store, logger logging.Logger, maxAge, nonceTTL time.Duration) *replayGuard {
	return &replayGuard{
		store:    store,
		logger:   logger.With("component", "replay"),
		maxAge:   maxAge,
		nonceTTL: nonceTTL,
		now:      time.Now,
	}
}

// check validates the timestamp and nonce of a guarded request. Either field
// may be absent (zero value); present fields are enforced.
func (g *replayGuard) check(ctx context.Context, timestamp int64, nonce string) error {
	now := g.now()

	if timestamp != 0 {
		age := now.Sub(time.UnixMilli(timestamp))
		if age < 0 {
			age = -age
		}
		if age > g.maxAge {
			return common.ErrorStaleRequest
		}
	}

	if nonce != "" {
		key := storage.NoncePrefix + nonce
		if raw, err := g.store.Get(ctx, key); err == nil {
			expiry, perr := strconv.ParseInt(string(raw), 10, 64)
			if perr != nil || now.Before(time.UnixMilli(expiry)) {
				return common.ErrorReplayDetected
			}
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		expiry := now.Add(g.nonceTTL).UnixMilli()
		if err := g.store.Set(ctx, key, []byte(strconv.FormatInt(expiry, 10))); err != nil {
			return err
		}
		g.sweep(ctx, now)
	}

	return nil
}

// sweep drops expired nonce entries. Failures only log: a stale entry that
// survives a sweep is rejected on lookup anyway.
func (g *replayGuard) sweep(ctx context.Context, now time.Time) {
	keys, err := g.store.Keys(ctx, storage.NoncePrefix)
	if err != nil {
		g.logger.Warn(ctx, "nonce sweep failed", "error", err.Error())
		return
	}
	var expired []string
	for _, key := range keys {
		raw, err := g.store.Get(ctx, key)
		if err != nil {
			continue
		}
		expiry, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil || !now.Before(time.UnixMilli(expiry)) {
			expired = append(expired, key)
		}
	}
	if len(expired) == 0 {
		return
	}
	if err := g.store.DeleteMany(ctx, expired...); err != nil {
		g.logger.Warn(ctx, "nonce sweep delete failed", "error", err.Error())
	}
}
