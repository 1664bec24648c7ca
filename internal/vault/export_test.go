package vault

import (
	"context"
	"testing"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportableSave(t *testing.T, v *Vault, domain, url, username, password string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, v.SavePassword(ctx, domain, url, username, password))
	allow := true
	require.NoError(t, v.UpdatePasswordMetadata(ctx, domain, url, username,
		CredentialMetadata{AllowExport: &allow}))
}

func TestExportHonoursAllowExport(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	exportableSave(t, v, "example.com", "https://example.com", "alice", "pw1")
	require.NoError(t, v.SavePassword(ctx, "private.example", "https://private.example", "bob", "pw2"))

	file, err := v.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExportVersion, file.Version)
	assert.True(t, file.Encrypted)
	assert.NotEmpty(t, file.ExportDate)

	payload, err := cryptox.Open(file.Data, testPin)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "alice")
	assert.Contains(t, string(payload), "pw1")
	assert.NotContains(t, string(payload), "bob")
	assert.NotContains(t, string(payload), "pw2")
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestVault(t)

	exportableSave(t, src, "example.com", "https://example.com/login", "alice", "hunter2")
	cat := "work"
	require.NoError(t, src.UpdatePasswordMetadata(ctx, "example.com", "https://example.com/login", "alice",
		CredentialMetadata{Category: &cat, Tags: []string{"t1", "t2"}}))

	file, err := src.Export(ctx)
	require.NoError(t, err)

	// Import into a second vault unlocked with a different PIN.
	dst, _ := newTestVault(t)
	require.NoError(t, dst.Pins().SetPin(ctx, "xyz789"))
	dst.Session().Set("xyz789")

	n, err := dst.Import(ctx, file, testPin)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records, err := dst.GetPasswords(ctx, "example.com")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].Username)
	assert.Equal(t, "hunter2", records[0].Password)
	require.NotNil(t, records[0].Category)
	assert.Equal(t, "work", *records[0].Category)
	assert.Equal(t, []string{"t1", "t2"}, records[0].Tags)
}

func TestImportWrongPin(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestVault(t)
	exportableSave(t, src, "example.com", "https://example.com", "alice", "pw")

	file, err := src.Export(ctx)
	require.NoError(t, err)

	dst, _ := newTestVault(t)
	_, err = dst.Import(ctx, file, "wrong9")
	assert.ErrorIs(t, err, common.ErrorDecryption)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	v, _ := newTestVault(t)
	_, err := v.Import(context.Background(), &ExportFile{Version: "2.0", Encrypted: true}, testPin)
	assert.Error(t, err)
}

func TestDomainFromURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://Example.com/login", "example.com"},
		{"https://sub.example.com:8443/x", "sub.example.com"},
		{"example.com", "example.com"},
		{" Example.com ", "example.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DomainFromURL(tt.raw), tt.raw)
	}
}
