package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/cryptox"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
)

// Export builds an encrypted export of every credential flagged allowExport.
// Passwords travel in plaintext inside the sealed container only; the
// container is sealed under the current session key.
func (v *Vault) Export(ctx context.Context) (*ExportFile, error) {
	pin, err := v.sessionPin(ctx)
	if err != nil {
		return nil, err
	}

	byDomain, err := v.loadPasswords(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([][]exportEntry, 0, len(byDomain))
	for _, records := range byDomain {
		var group []exportEntry
		for _, r := range records {
			if !r.AllowExport {
				continue
			}
			plain, err := cryptox.Open(r.Password, pin)
			if err != nil {
				v.logger.Warn(ctx, "skipping undecryptable credential in export",
					"domain", r.Domain, "username", r.Username)
				continue
			}
			group = append(group, exportEntry{
				Username:  r.Username,
				Password:  string(plain),
				URL:       r.URL,
				Category:  r.Category,
				Tags:      r.Tags,
				CreatedAt: r.CreatedAt,
				UpdatedAt: r.UpdatedAt,
			})
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}

	payload, err := json.Marshal(groups)
	if err != nil {
		return nil, err
	}
	sealed, err := cryptox.Seal(payload, pin)
	if err != nil {
		return nil, fmt.Errorf("failed to seal export: %w", err)
	}

	return &ExportFile{
		Version:    ExportVersion,
		Encrypted:  true,
		ExportDate: v.now().UTC().Format(time.RFC3339),
		Data:       sealed,
	}, nil
}

// Import merges an export file into the vault. The container is opened with
// the PIN it was exported under and every entry is re-encrypted under the
// current session key. Identity collisions replace the existing record;
// metadata and original timestamps are preserved. Whitelisting does not
// apply to imports. Returns the number of records imported.
func (v *Vault) Import(ctx context.Context, file *ExportFile, exportPin string) (int, error) {
	if file.Version != ExportVersion || !file.Encrypted {
		return 0, fmt.Errorf("unsupported export file version %q", file.Version)
	}

	pin, err := v.sessionPin(ctx)
	if err != nil {
		return 0, err
	}

	payload, err := cryptox.Open(file.Data, exportPin)
	if err != nil {
		return 0, err
	}
	var groups [][]exportEntry
	if err := json.Unmarshal(payload, &groups); err != nil {
		return 0, fmt.Errorf("malformed export payload: %w", err)
	}

	v.muPasswords.Lock()
	defer v.muPasswords.Unlock()

	byDomain, err := v.loadPasswords(ctx)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, group := range groups {
		for _, e := range group {
			domain := DomainFromURL(e.URL)
			sealed, err := cryptox.Seal([]byte(e.Password), pin)
			if err != nil {
				return 0, fmt.Errorf("failed to seal imported password: %w", err)
			}

			rec := CredentialRecord{
				Username:  e.Username,
				Password:  sealed,
				URL:       e.URL,
				Domain:    domain,
				CreatedAt: e.CreatedAt,
				UpdatedAt: e.UpdatedAt,
				Category:  e.Category,
				Tags:      e.Tags,
			}
			if rec.CreatedAt == 0 {
				rec.CreatedAt = v.nowMillis()
			}
			if rec.UpdatedAt == 0 {
				rec.UpdatedAt = rec.CreatedAt
			}
			if rec.Tags == nil {
				rec.Tags = []string{}
			}

			records := byDomain[domain]
			replaced := false
			for i := range records {
				if records[i].matches(e.URL, e.Username) {
					rec.AllowExport = records[i].AllowExport
					records[i] = rec
					replaced = true
					break
				}
			}
			if !replaced {
				records = append(records, rec)
			}
			byDomain[domain] = records
			imported++
		}
	}

	if err := v.saveCollection(ctx, storage.KeyPasswords, byDomain); err != nil {
		return 0, err
	}
	return imported, nil
}

// DomainFromURL extracts the lowercased hostname from a stored URL. A value
// that does not parse as a URL is used as-is.
func DomainFromURL(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
		return strings.ToLower(u.Hostname())
	}
	return strings.ToLower(strings.TrimSpace(raw))
}
