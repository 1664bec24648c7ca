package vault

import (
	"context"
	"fmt"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/cryptox"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
)

// CredentialMetadata is a partial metadata update: nil fields stay unchanged.
// Category set to a pointer to "" clears the category.
type CredentialMetadata struct {
	Category    *string
	Tags        []string
	AllowExport *bool
}

// SavePassword encrypts and stores one credential. A record with the same
// (domain, url, username) identity is replaced in place keeping its creation
// time and metadata; otherwise the record is appended. Whitelisted domains
// are refused.
func (v *Vault) SavePassword(ctx context.Context, domain, url, username, password string) error {
	if v.IsWhitelisted(ctx, domain) {
		return common.ErrorWhitelistedDomain
	}

	pin, err := v.sessionPin(ctx)
	if err != nil {
		return err
	}
	sealed, err := cryptox.Seal([]byte(password), pin)
	if err != nil {
		return fmt.Errorf("failed to seal password: %w", err)
	}

	v.muPasswords.Lock()
	defer v.muPasswords.Unlock()

	byDomain, err := v.loadPasswords(ctx)
	if err != nil {
		return err
	}

	now := v.nowMillis()
	records := byDomain[domain]
	replaced := false
	for i := range records {
		if records[i].matches(url, username) {
			records[i].Password = sealed
			records[i].UpdatedAt = now
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, CredentialRecord{
			Username:  username,
			Password:  sealed,
			URL:       url,
			Domain:    domain,
			CreatedAt: now,
			UpdatedAt: now,
			Tags:      []string{},
		})
	}
	byDomain[domain] = records

	return v.saveCollection(ctx, storage.KeyPasswords, byDomain)
}

// GetPasswords returns the decrypted credentials stored for one domain.
// Records that fail to decrypt are skipped with a log line so one corrupted
// blob cannot hide the rest.
func (v *Vault) GetPasswords(ctx context.Context, domain string) ([]CredentialRecord, error) {
	pin, err := v.sessionPin(ctx)
	if err != nil {
		return nil, err
	}

	byDomain, err := v.loadPasswords(ctx)
	if err != nil {
		return nil, err
	}
	return v.decryptRecords(ctx, byDomain[domain], pin), nil
}

// GetAllPasswords returns every stored credential, decrypted and grouped by
// domain. The partial-failure policy matches GetPasswords.
func (v *Vault) GetAllPasswords(ctx context.Context) (map[string][]CredentialRecord, error) {
	pin, err := v.sessionPin(ctx)
	if err != nil {
		return nil, err
	}

	byDomain, err := v.loadPasswords(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]CredentialRecord, len(byDomain))
	for domain, records := range byDomain {
		out[domain] = v.decryptRecords(ctx, records, pin)
	}
	return out, nil
}

// DeletePassword removes the record with the exact (domain, url, username)
// identity. No session key is needed: deletion matches on plaintext fields
// only. An emptied domain is dropped from the map.
func (v *Vault) DeletePassword(ctx context.Context, domain, url, username string) error {
	v.muPasswords.Lock()
	defer v.muPasswords.Unlock()

	byDomain, err := v.loadPasswords(ctx)
	if err != nil {
		return err
	}

	records, ok := byDomain[domain]
	if !ok {
		return common.ErrorNotFound
	}
	kept := records[:0]
	for _, r := range records {
		if !r.matches(url, username) {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return common.ErrorNotFound
	}
	if len(kept) == 0 {
		delete(byDomain, domain)
	} else {
		byDomain[domain] = kept
	}

	return v.saveCollection(ctx, storage.KeyPasswords, byDomain)
}

// UpdatePassword replaces the secret of an existing record, re-encrypting
// under the current session key. CreatedAt and metadata are preserved.
func (v *Vault) UpdatePassword(ctx context.Context, domain, url, username, newPassword string) error {
	pin, err := v.sessionPin(ctx)
	if err != nil {
		return err
	}
	sealed, err := cryptox.Seal([]byte(newPassword), pin)
	if err != nil {
		return fmt.Errorf("failed to seal password: %w", err)
	}

	v.muPasswords.Lock()
	defer v.muPasswords.Unlock()

	byDomain, err := v.loadPasswords(ctx)
	if err != nil {
		return err
	}

	records := byDomain[domain]
	for i := range records {
		if records[i].matches(url, username) {
			records[i].Password = sealed
			records[i].UpdatedAt = v.nowMillis()
			byDomain[domain] = records
			return v.saveCollection(ctx, storage.KeyPasswords, byDomain)
		}
	}
	return common.ErrorNotFound
}

// UpdatePasswordMetadata updates the plaintext metadata fields of one record.
// The sealed blob is untouched, so neither a session key nor re-encryption is
// required.
func (v *Vault) UpdatePasswordMetadata(ctx context.Context, domain, url, username string, meta CredentialMetadata) error {
	v.muPasswords.Lock()
	defer v.muPasswords.Unlock()

	byDomain, err := v.loadPasswords(ctx)
	if err != nil {
		return err
	}

	records := byDomain[domain]
	for i := range records {
		if !records[i].matches(url, username) {
			continue
		}
		if meta.Category != nil {
			if *meta.Category == "" {
				records[i].Category = nil
			} else {
				c := *meta.Category
				records[i].Category = &c
			}
		}
		if meta.Tags != nil {
			records[i].Tags = meta.Tags
		}
		if meta.AllowExport != nil {
			records[i].AllowExport = *meta.AllowExport
		}
		records[i].UpdatedAt = v.nowMillis()
		byDomain[domain] = records
		return v.saveCollection(ctx, storage.KeyPasswords, byDomain)
	}
	return common.ErrorNotFound
}

func (v *Vault) loadPasswords(ctx context.Context) (map[string][]CredentialRecord, error) {
	byDomain := map[string][]CredentialRecord{}
	if err := v.loadCollection(ctx, storage.KeyPasswords, &byDomain); err != nil {
		return nil, err
	}
	return byDomain, nil
}

// decryptRecords opens each sealed password, substituting the plaintext in
// the returned copies. Undecryptable records are dropped, not fatal.
func (v *Vault) decryptRecords(ctx context.Context, records []CredentialRecord, pin string) []CredentialRecord {
	out := make([]CredentialRecord, 0, len(records))
	for _, r := range records {
		plain, err := cryptox.Open(r.Password, pin)
		if err != nil {
			v.logger.Warn(ctx, "skipping undecryptable credential",
				"domain", r.Domain, "username", r.Username)
			continue
		}
		r.Password = string(plain)
		out = append(out, r)
	}
	return out
}
