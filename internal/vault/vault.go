// Package vault implements the credential-vault engine: PIN management, the
// session key cache and encrypted CRUD over credentials, data cards, TOTP
// secrets and pending passwords.
//
// Every persisted collection is replaced wholesale on write; the load →
// mutate → save cycle for a collection is a critical section guarded by a
// per-collection mutex so concurrent writes cannot drop each other.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/logging"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
)

// DefaultPendingHorizon is how long a queued pending password stays usable.
const DefaultPendingHorizon = 24 * time.Hour

// Vault is the encrypted record store. All payload confidentiality comes
// from the record cipher keyed by the session PIN; plaintext identity fields
// (domain, url, username) stay outside the sealed blobs.
type Vault struct {
	store   storage.Store
	session *SessionCache
	pins    *PinAuthority
	logger  logging.Logger

	now            func() time.Time
	pendingHorizon time.Duration

	muPasswords sync.Mutex
	muCards     sync.Mutex
	muTotp      sync.Mutex
	muPending   sync.Mutex
}

// New builds a Vault over the given store, session cache and PIN authority.
func New(store storage.Store, session *SessionCache, pins *PinAuthority, logger logging.Logger) *Vault {
	return &Vault{
		store:          store,
		session:        session,
		pins:           pins,
		logger:         logger.With("component", "vault"),
		now:            time.Now,
		pendingHorizon: DefaultPendingHorizon,
	}
}

// SetPendingHorizon overrides the retention horizon of the pending queue.
// Non-positive values are ignored.
func (v *Vault) SetPendingHorizon(d time.Duration) {
	if d > 0 {
		v.pendingHorizon = d
	}
}

// Session exposes the session cache for the request dispatcher.
func (v *Vault) Session() *SessionCache { return v.session }

// Pins exposes the PIN authority for the request dispatcher.
func (v *Vault) Pins() *PinAuthority { return v.pins }

func (v *Vault) nowMillis() int64 {
	return v.now().UnixMilli()
}

// sessionPin returns the cached session PIN after confirming a PIN is set at
// all; fails with common.ErrorPinNotSet or common.ErrorSessionRequired.
func (v *Vault) sessionPin(ctx context.Context) (string, error) {
	if !v.pins.IsPinSet(ctx) {
		return "", common.ErrorPinNotSet
	}
	return v.session.Get()
}

// loadCollection unmarshals the stored value at key into dest. A missing key
// leaves dest at its zero value.
func (v *Vault) loadCollection(ctx context.Context, key string, dest any) error {
	data, err := v.store.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("corrupted collection %q: %w", key, err)
	}
	return nil
}

// saveCollection persists the whole collection value atomically.
func (v *Vault) saveCollection(ctx context.Context, key string, src any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return v.store.Set(ctx, key, data)
}
