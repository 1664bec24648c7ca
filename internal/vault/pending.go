package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/cryptox"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
)

// SavePendingPassword queues a captured login while the vault is locked.
// The password is sealed under a disposable random key held alongside the
// queue, so no session key is needed and the plaintext never hits storage.
func (v *Vault) SavePendingPassword(ctx context.Context, domain, url, username, password string) error {
	if v.IsWhitelisted(ctx, domain) {
		return common.ErrorWhitelistedDomain
	}

	v.muPending.Lock()
	defer v.muPending.Unlock()

	key, err := v.pendingKey(ctx, true)
	if err != nil {
		return err
	}
	sealed, err := cryptox.Seal([]byte(password), key)
	if err != nil {
		return fmt.Errorf("failed to seal pending password: %w", err)
	}

	queue, err := v.loadPending(ctx)
	if err != nil {
		return err
	}
	queue = append(queue, PendingPassword{
		Domain:    domain,
		URL:       url,
		Username:  username,
		Password:  sealed,
		Timestamp: v.nowMillis(),
	})
	return v.saveCollection(ctx, storage.KeyPendingPasswords, queue)
}

// GetPendingPasswords returns the decrypted pending queue. Entries past the
// retention horizon are purged from storage before decryption; entries whose
// blob fails to open are skipped.
func (v *Vault) GetPendingPasswords(ctx context.Context) ([]PendingPassword, error) {
	v.muPending.Lock()
	defer v.muPending.Unlock()

	queue, err := v.loadPending(ctx)
	if err != nil {
		return nil, err
	}
	if len(queue) == 0 {
		return []PendingPassword{}, nil
	}

	cutoff := v.now().Add(-v.pendingHorizon).UnixMilli()
	fresh := queue[:0]
	for _, p := range queue {
		if p.Timestamp >= cutoff {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) != len(queue) {
		if err := v.saveCollection(ctx, storage.KeyPendingPasswords, fresh); err != nil {
			return nil, err
		}
	}

	key, err := v.pendingKey(ctx, false)
	if errors.Is(err, common.ErrorNotFound) {
		// Queue without its key is unreadable; treat as empty.
		return []PendingPassword{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]PendingPassword, 0, len(fresh))
	for _, p := range fresh {
		plain, err := cryptox.Open(p.Password, key)
		if err != nil {
			v.logger.Warn(ctx, "skipping undecryptable pending password",
				"domain", p.Domain, "username", p.Username)
			continue
		}
		p.Password = string(plain)
		out = append(out, p)
	}
	return out, nil
}

// ClearPendingPasswords drops the queue and its disposable key.
func (v *Vault) ClearPendingPasswords(ctx context.Context) error {
	v.muPending.Lock()
	defer v.muPending.Unlock()

	return v.store.DeleteMany(ctx, storage.KeyPendingPasswords, storage.KeyPendingPasswordsKey)
}

func (v *Vault) loadPending(ctx context.Context) ([]PendingPassword, error) {
	queue := []PendingPassword{}
	if err := v.loadCollection(ctx, storage.KeyPendingPasswords, &queue); err != nil {
		return nil, err
	}
	return queue, nil
}

// pendingKey returns the disposable key the pending queue is sealed under,
// creating one when create is set and none exists yet.
func (v *Vault) pendingKey(ctx context.Context, create bool) (string, error) {
	raw, err := v.store.Get(ctx, storage.KeyPendingPasswordsKey)
	if err == nil {
		return string(raw), nil
	}
	if !errors.Is(err, common.ErrorNotFound) || !create {
		return "", err
	}

	key := cryptox.GenerateTempKey()
	if err := v.store.Set(ctx, storage.KeyPendingPasswordsKey, []byte(key)); err != nil {
		return "", err
	}
	return key, nil
}
