package pairing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_Format(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)

	// 20 payload chars + 4 hyphens
	assert.Len(t, code, 24)

	groups := strings.Split(code, "-")
	require.Len(t, groups, 5)
	for _, g := range groups {
		assert.Len(t, g, 4)
	}

	for _, r := range strings.ReplaceAll(code, "-", "") {
		ok := (r >= 'a' && r <= 'z') || (r >= '2' && r <= '7')
		assert.True(t, ok, "unexpected character %q in code %s", r, code)
	}
}

func TestGenerateCode_Uniqueness(t *testing.T) {
	const samples = 10_000

	seen := make(map[string]struct{}, samples)
	for i := 0; i < samples; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code generated: %s", code)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, samples)
}

func TestGenerateCode_CharacterSpread(t *testing.T) {
	// Rough sanity check on the CSPRNG: over many draws every base32
	// character should show up.
	freq := make(map[rune]int)
	for i := 0; i < 1000; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		for _, r := range code {
			if r != '-' {
				freq[r]++
			}
		}
	}
	assert.Len(t, freq, 32, "expected all 32 base32 characters to appear")
}

func TestValidCodeFormat(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)

	assert.True(t, ValidCodeFormat(code))
	assert.True(t, ValidCodeFormat(strings.ReplaceAll(code, "-", "")))

	assert.False(t, ValidCodeFormat(""))
	assert.False(t, ValidCodeFormat("too-short"))
	assert.False(t, ValidCodeFormat("ABCD-EFGH-IJKL-MNOP-QRST"), "uppercase is not the stored format")
	assert.False(t, ValidCodeFormat("aaaa-aaaa-aaaa-aaaa-aa1a"), "1 is not a base32 digit")
}
