package emailpattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_MostLikelyFirst(t *testing.T) {
	got := Generate("Ana", "Li", "acme.com")
	require.NotEmpty(t, got)
	assert.Equal(t, "ana.li@acme.com", got[0])
	assert.Contains(t, got, "anali@acme.com")
	assert.Contains(t, got, "a.li@acme.com")
}

func TestGenerate_NeverMalformed(t *testing.T) {
	cases := [][3]string{
		{"Ana", "Li", "acme.com"},
		{"", "Li", "acme.com"},
		{"Ana", "", "acme.com"},
		{"José", "Núñez", "acme.com"},
		{"O'Brien", "Mac Donald", "acme.com"},
		{"-", ".", "acme.com"},
	}
	for _, c := range cases {
		for _, addr := range Generate(c[0], c[1], c[2]) {
			assert.NotContains(t, addr, "..", "candidate %q", addr)
			at := strings.Index(addr, "@")
			require.Greater(t, at, 0, "candidate %q must have non-empty local part", addr)
			assert.False(t, strings.HasPrefix(addr, "."), "candidate %q", addr)
			assert.False(t, strings.HasSuffix(addr[:at], "."), "candidate %q", addr)
		}
	}
}

func TestGenerate_FoldsDiacriticsAndPunctuation(t *testing.T) {
	got := Generate("José", "Núñez", "acme.com")
	require.NotEmpty(t, got)
	assert.Equal(t, "jose.nunez@acme.com", got[0])

	got = Generate("O'Brien", "Smith", "acme.com")
	require.NotEmpty(t, got)
	assert.Equal(t, "obrien.smith@acme.com", got[0])
}

func TestGenerate_DegradedNames(t *testing.T) {
	assert.Equal(t, []string{"ana@acme.com"}, Generate("Ana", "", "acme.com"))
	assert.Equal(t, []string{"li@acme.com"}, Generate("", "Li", "acme.com"))
	assert.Nil(t, Generate("", "", "acme.com"))
	assert.Nil(t, Generate("Ana", "Li", ""))
	assert.Nil(t, Generate("-", "'", "acme.com"))
}

func TestGenerate_NoDuplicateCandidates(t *testing.T) {
	// Single-letter first name makes first.last and f.last collide.
	got := Generate("A", "Li", "acme.com")
	seen := map[string]bool{}
	for _, addr := range got {
		assert.False(t, seen[addr], "duplicate candidate %q", addr)
		seen[addr] = true
	}
}

func TestGenerate_LowercasesDomain(t *testing.T) {
	got := Generate("Ana", "Li", "Acme.COM")
	require.NotEmpty(t, got)
	assert.Equal(t, "ana.li@acme.com", got[0])
}
