package vault

import (
	"context"
	"strings"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
)

// IsWhitelisted reports whether domain is exempt from password handling.
// Entries match exactly; a "*.<base>" entry matches subdomains of the base
// only, so covering the base itself takes a separate exact entry. Read
// failures are treated as "not whitelisted" so a broken whitelist never
// blocks the vault.
func (v *Vault) IsWhitelisted(ctx context.Context, domain string) bool {
	var whitelist []string
	if err := v.loadCollection(ctx, storage.KeyWhitelist, &whitelist); err != nil {
		v.logger.Warn(ctx, "whitelist unreadable", "error", err.Error())
		return false
	}

	for _, pattern := range whitelist {
		if pattern == domain {
			return true
		}
		if base, ok := strings.CutPrefix(pattern, "*."); ok {
			if strings.HasSuffix(domain, "."+base) {
				return true
			}
		}
	}
	return false
}

// Whitelist returns the configured whitelist entries.
func (v *Vault) Whitelist(ctx context.Context) ([]string, error) {
	var whitelist []string
	if err := v.loadCollection(ctx, storage.KeyWhitelist, &whitelist); err != nil {
		return nil, err
	}
	return whitelist, nil
}

// SetWhitelist replaces the whitelist.
func (v *Vault) SetWhitelist(ctx context.Context, entries []string) error {
	if entries == nil {
		entries = []string{}
	}
	return v.saveCollection(ctx, storage.KeyWhitelist, entries)
}
