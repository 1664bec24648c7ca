package vault

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/cryptox"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
	"github.com/google/uuid"
)

// SaveTotp seals an authenticator entry and appends it to the TOTP
// collection, returning its stable ID. Secret validity is the caller's
// concern; the vault stores whatever it is given.
func (v *Vault) SaveTotp(ctx context.Context, entry TotpEntry) (string, error) {
	pin, err := v.sessionPin(ctx)
	if err != nil {
		return "", err
	}

	now := v.nowMillis()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	sealed, err := v.sealTotpEntry(entry, pin)
	if err != nil {
		return "", err
	}

	v.muTotp.Lock()
	defer v.muTotp.Unlock()

	items, err := v.loadSealedItems(ctx, storage.KeyTotpList)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	items = append(items, SealedItem{ID: id, Data: sealed})
	if err := v.saveCollection(ctx, storage.KeyTotpList, items); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateTotp replaces an authenticator entry by ID, preserving its original
// creation time.
func (v *Vault) UpdateTotp(ctx context.Context, id string, entry TotpEntry) error {
	pin, err := v.sessionPin(ctx)
	if err != nil {
		return err
	}

	v.muTotp.Lock()
	defer v.muTotp.Unlock()

	items, err := v.loadSealedItems(ctx, storage.KeyTotpList)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}

		entry.UpdatedAt = v.nowMillis()
		if plain, err := cryptox.Open(items[i].Data, pin); err == nil {
			var old TotpEntry
			if json.Unmarshal(plain, &old) == nil {
				entry.CreatedAt = old.CreatedAt
			}
		}
		if entry.CreatedAt == 0 {
			entry.CreatedAt = entry.UpdatedAt
		}

		sealed, err := v.sealTotpEntry(entry, pin)
		if err != nil {
			return err
		}
		items[i].Data = sealed
		return v.saveCollection(ctx, storage.KeyTotpList, items)
	}
	return common.ErrorNotFound
}

// DeleteTotp removes an authenticator entry by ID. No session key is
// required.
func (v *Vault) DeleteTotp(ctx context.Context, id string) error {
	v.muTotp.Lock()
	defer v.muTotp.Unlock()
	return v.deleteSealedItem(ctx, storage.KeyTotpList, id)
}

// GetAllTotp returns every decrypted authenticator entry with its ID.
// Entries that fail to decrypt are skipped with a log line.
func (v *Vault) GetAllTotp(ctx context.Context) ([]TotpView, error) {
	pin, err := v.sessionPin(ctx)
	if err != nil {
		return nil, err
	}

	items, err := v.loadSealedItems(ctx, storage.KeyTotpList)
	if err != nil {
		return nil, err
	}

	out := make([]TotpView, 0, len(items))
	for _, item := range items {
		plain, err := cryptox.Open(item.Data, pin)
		if err != nil {
			v.logger.Warn(ctx, "skipping undecryptable totp entry", "id", item.ID)
			continue
		}
		var entry TotpEntry
		if err := json.Unmarshal(plain, &entry); err != nil {
			v.logger.Warn(ctx, "skipping malformed totp entry", "id", item.ID)
			continue
		}
		out = append(out, TotpView{ID: item.ID, TotpEntry: entry})
	}
	return out, nil
}

func (v *Vault) sealTotpEntry(entry TotpEntry, pin string) (string, error) {
	plain, err := json.Marshal(entry)
	if err != nil {
		return "", err
	}
	sealed, err := cryptox.Seal(plain, pin)
	if err != nil {
		return "", fmt.Errorf("failed to seal totp entry: %w", err)
	}
	return sealed, nil
}
