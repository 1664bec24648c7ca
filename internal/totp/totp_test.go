package totp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rfcSecret is the RFC 6238 SHA-1 test secret ("12345678901234567890").
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestGenerateCodeAt_RFC6238Vectors(t *testing.T) {
	tests := []struct {
		unix int64
		want string
	}{
		{59, "94287082"},
		{1111111109, "07081804"},
		{1111111111, "14050471"},
		{1234567890, "89005924"},
		{2000000000, "69279037"},
	}

	for _, tt := range tests {
		code, err := GenerateCodeAt(rfcSecret, time.Unix(tt.unix, 0), 30*time.Second, 8)
		require.NoError(t, err)
		assert.Equal(t, tt.want, code, "t=%d", tt.unix)
	}
}

func TestGenerateCode_StableWithinWindow(t *testing.T) {
	// 999999990..1000000019 share a 30-second counter window; 1000000020
	// starts the next one.
	a, err := GenerateCode(rfcSecret, time.Unix(999999990, 0))
	require.NoError(t, err)
	b, err := GenerateCode(rfcSecret, time.Unix(1000000019, 0))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := GenerateCode(rfcSecret, time.Unix(1000000020, 0))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	assert.Len(t, a, DefaultDigits)
}

func TestGenerateCode_HexSecret(t *testing.T) {
	// Same RFC key, hex-encoded.
	code, err := GenerateCodeAt("3132333435363738393031323334353637383930", time.Unix(59, 0), 30*time.Second, 8)
	require.NoError(t, err)
	assert.Equal(t, "94287082", code)
}

func TestGenerateCode_SecretWithWhitespace(t *testing.T) {
	spaced := "gezd gnbv gy3t qojq gezd gnbv gy3t qojq"
	a, err := GenerateCode(spaced, time.Unix(59, 0))
	require.NoError(t, err)
	b, err := GenerateCode(rfcSecret, time.Unix(59, 0))
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestGenerateCode_InvalidSecret(t *testing.T) {
	_, err := GenerateCode("not a secret!!", time.Now())
	assert.Error(t, err)

	_, err = GenerateCode("", time.Now())
	assert.Error(t, err)
}

func TestTimeRemaining(t *testing.T) {
	tests := []struct {
		unix int64
		want int
	}{
		{0, 30},
		{1, 29},
		{29, 1},
		{30, 30},
		{59, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeRemaining(time.Unix(tt.unix, 0), 30*time.Second), "t=%d", tt.unix)
	}
}

func TestIsValidSecret(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{rfcSecret, true},
		{"gezd gnbv gy3t qojq", true},
		{"JBSWY3DPEHPK3PXP", true},
		{"deadBEEF00", true},
		{"", false},
		{"   ", false},
		{"with-dash", false},
		{"päöü", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidSecret(tt.secret), "secret=%q", tt.secret)
	}
}
