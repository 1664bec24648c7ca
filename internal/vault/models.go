package vault

import "encoding/json"

// CredentialRecord is one saved login for a domain. Password holds a sealed
// blob at rest; methods returning decrypted results substitute the plaintext.
// Identity is the (domain, url, username) triple: saves replace on match,
// deletes and updates require an exact match.
type CredentialRecord struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	URL         string   `json:"url"`
	Domain      string   `json:"domain"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
	AllowExport bool     `json:"allowExport"`
}

// matches reports whether the record has the given plaintext identity within
// its domain collection.
func (r *CredentialRecord) matches(url, username string) bool {
	return r.URL == url && r.Username == username
}

// SealedItem is one encrypted data card or TOTP entry. The ID is a stable
// opaque identifier assigned at creation; list order is a display hint only.
type SealedItem struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

// TotpEntry is the decrypted payload of a stored authenticator secret.
type TotpEntry struct {
	Service   string `json:"service"`
	Login     string `json:"login"`
	Secret    string `json:"secret"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// TotpView pairs a decrypted TotpEntry with its stable ID.
type TotpView struct {
	ID string `json:"id"`
	TotpEntry
}

// DataCardView pairs a decrypted data card payload with its stable ID.
type DataCardView struct {
	ID   string          `json:"id"`
	Card json.RawMessage `json:"card"`
}

// PendingPassword is a captured login waiting for the user to unlock the
// vault. Password is sealed under the disposable pending key at rest and
// plaintext in results.
type PendingPassword struct {
	Domain    string `json:"domain"`
	URL       string `json:"url"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Timestamp int64  `json:"timestamp"`
}

// BiometricResult is the outcome of a biometric authentication. Either Pin is
// set (and the session is already unlocked), or RequiresPin signals that the
// assertion was verified but the PIN must be entered manually.
type BiometricResult struct {
	Pin         string `json:"pin,omitempty"`
	Verified    bool   `json:"biometricVerified"`
	RequiresPin bool   `json:"requiresPin,omitempty"`
}

// ExportFile is the encrypted export container. Data seals a JSON array of
// per-domain arrays of export entries.
type ExportFile struct {
	Version    string `json:"version"`
	Encrypted  bool   `json:"encrypted"`
	ExportDate string `json:"exportDate"`
	Data       string `json:"data"`
}

// ExportVersion is the only supported export container version.
const ExportVersion = "1.0"

type exportEntry struct {
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	URL       string   `json:"url"`
	Category  *string  `json:"category"`
	Tags      []string `json:"tags"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}
