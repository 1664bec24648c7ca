package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWhitelisted(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)
	require.NoError(t, v.SetWhitelist(ctx, []string{"bank.example", "*.corp.example"}))

	tests := []struct {
		domain string
		want   bool
	}{
		{"bank.example", true},
		{"login.bank.example", false},
		// The wildcard covers subdomains only; the base needs its own entry.
		{"corp.example", false},
		{"mail.corp.example", true},
		{"deep.mail.corp.example", true},
		{"notcorp.example", false},
		{"corp.example.evil", false},
		{"other.example", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.IsWhitelisted(ctx, tt.domain), tt.domain)
	}
}

func TestIsWhitelisted_WildcardExcludesBase(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	require.NoError(t, v.SetWhitelist(ctx, []string{"*.example.com"}))
	assert.False(t, v.IsWhitelisted(ctx, "example.com"))
	assert.True(t, v.IsWhitelisted(ctx, "www.example.com"))

	require.NoError(t, v.SetWhitelist(ctx, []string{"*.example.com", "example.com"}))
	assert.True(t, v.IsWhitelisted(ctx, "example.com"))
}

func TestWhitelistEmptyByDefault(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	assert.False(t, v.IsWhitelisted(ctx, "example.com"))

	entries, err := v.Whitelist(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
