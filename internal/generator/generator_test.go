package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_DefaultSettings(t *testing.T) {
	pw, err := Generate(DefaultSettings())
	require.NoError(t, err)
	assert.Len(t, pw, DefaultLength)

	pw2, err := Generate(DefaultSettings())
	require.NoError(t, err)
	assert.NotEqual(t, pw, pw2)
}

func TestGenerate_LengthClamp(t *testing.T) {
	tests := []struct {
		requested int
		want      int
	}{
		{0, DefaultLength},
		{1, MinLength},
		{64, 64},
		{1000, MaxLength},
	}
	for _, tt := range tests {
		s := DefaultSettings()
		s.Length = tt.requested
		pw, err := Generate(s)
		require.NoError(t, err)
		assert.Len(t, pw, tt.want, "requested %d", tt.requested)
	}
}

func TestGenerate_ContainsEveryEnabledClass(t *testing.T) {
	s := DefaultSettings()
	s.Length = MinLength

	for i := 0; i < 50; i++ {
		pw, err := Generate(s)
		require.NoError(t, err)
		assert.True(t, strings.ContainsAny(pw, similarSafeSets.uppercase), "no uppercase in %q", pw)
		assert.True(t, strings.ContainsAny(pw, similarSafeSets.lowercase), "no lowercase in %q", pw)
		assert.True(t, strings.ContainsAny(pw, similarSafeSets.numbers), "no digit in %q", pw)
		assert.True(t, strings.ContainsAny(pw, similarSafeSets.special), "no special in %q", pw)
	}
}

func TestGenerate_ExcludeSimilar(t *testing.T) {
	s := DefaultSettings()
	s.Length = MaxLength

	for i := 0; i < 20; i++ {
		pw, err := Generate(s)
		require.NoError(t, err)
		assert.False(t, strings.ContainsAny(pw, "0O1lI"), "similar char in %q", pw)
	}
}

func TestGenerate_SingleClass(t *testing.T) {
	s := Settings{Length: 20, IncludeNumbers: true}
	pw, err := Generate(s)
	require.NoError(t, err)
	for _, c := range pw {
		assert.Contains(t, fullSets.numbers, string(c))
	}
}

func TestGenerate_NoClassesEnabled(t *testing.T) {
	pw, err := Generate(Settings{Length: 20})
	require.NoError(t, err)
	assert.Empty(t, pw)
}
