package vault

import (
	"context"
	"fmt"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/cryptox"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
	"github.com/google/uuid"
)

// SaveDataCard seals a free-form card payload and appends it to the card
// collection, returning the stable ID assigned to it.
func (v *Vault) SaveDataCard(ctx context.Context, card []byte) (string, error) {
	pin, err := v.sessionPin(ctx)
	if err != nil {
		return "", err
	}
	sealed, err := cryptox.Seal(card, pin)
	if err != nil {
		return "", fmt.Errorf("failed to seal data card: %w", err)
	}

	v.muCards.Lock()
	defer v.muCards.Unlock()

	items, err := v.loadSealedItems(ctx, storage.KeyDataCards)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	items = append(items, SealedItem{ID: id, Data: sealed})
	if err := v.saveCollection(ctx, storage.KeyDataCards, items); err != nil {
		return "", err
	}
	return id, nil
}

// GetDataCard returns one decrypted card by ID.
func (v *Vault) GetDataCard(ctx context.Context, id string) (*DataCardView, error) {
	pin, err := v.sessionPin(ctx)
	if err != nil {
		return nil, err
	}

	items, err := v.loadSealedItems(ctx, storage.KeyDataCards)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID != id {
			continue
		}
		plain, err := cryptox.Open(item.Data, pin)
		if err != nil {
			return nil, err
		}
		return &DataCardView{ID: item.ID, Card: plain}, nil
	}
	return nil, common.ErrorNotFound
}

// GetAllDataCards returns every decrypted card. Cards that fail to decrypt
// are skipped with a log line.
func (v *Vault) GetAllDataCards(ctx context.Context) ([]DataCardView, error) {
	pin, err := v.sessionPin(ctx)
	if err != nil {
		return nil, err
	}

	items, err := v.loadSealedItems(ctx, storage.KeyDataCards)
	if err != nil {
		return nil, err
	}

	out := make([]DataCardView, 0, len(items))
	for _, item := range items {
		plain, err := cryptox.Open(item.Data, pin)
		if err != nil {
			v.logger.Warn(ctx, "skipping undecryptable data card", "id", item.ID)
			continue
		}
		out = append(out, DataCardView{ID: item.ID, Card: plain})
	}
	return out, nil
}

// UpdateDataCard replaces the payload of an existing card, keeping its ID.
func (v *Vault) UpdateDataCard(ctx context.Context, id string, card []byte) error {
	pin, err := v.sessionPin(ctx)
	if err != nil {
		return err
	}
	sealed, err := cryptox.Seal(card, pin)
	if err != nil {
		return fmt.Errorf("failed to seal data card: %w", err)
	}

	v.muCards.Lock()
	defer v.muCards.Unlock()

	items, err := v.loadSealedItems(ctx, storage.KeyDataCards)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			items[i].Data = sealed
			return v.saveCollection(ctx, storage.KeyDataCards, items)
		}
	}
	return common.ErrorNotFound
}

// DeleteDataCard removes a card by ID. No session key is required.
func (v *Vault) DeleteDataCard(ctx context.Context, id string) error {
	v.muCards.Lock()
	defer v.muCards.Unlock()
	return v.deleteSealedItem(ctx, storage.KeyDataCards, id)
}

func (v *Vault) loadSealedItems(ctx context.Context, key string) ([]SealedItem, error) {
	items := []SealedItem{}
	if err := v.loadCollection(ctx, key, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (v *Vault) deleteSealedItem(ctx context.Context, key, id string) error {
	items, err := v.loadSealedItems(ctx, key)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return common.ErrorNotFound
	}
	return v.saveCollection(ctx, key, kept)
}
