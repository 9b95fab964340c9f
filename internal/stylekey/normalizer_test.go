// internal/stylekey/normalizer_test.go
package stylekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CanonicalForms(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already canonical", "SR425-706", "SR425-706"},
		{"no hyphen", "SR425706", "SR425-706"},
		{"lower case with spaces", "sr 425 706", "SR425-706"},
		{"underscore suffix", "SR425-706_103_1", "SR425-706"},
		{"bare digits", "425706", "SR425-706"},
		{"bare digits hyphenated", "425-706", "SR425-706"},
		{"dot separators", "SR.425.706", "SR425-706"},
		{"surrounding whitespace", "  SR425-706  ", "SR425-706"},
		{"embedded in text", "style SR425-706 sample", "SR425-706"},
		{"all zeros accepted", "SR000-000", "SR000-000"},
		{"slash separator", "SR425/706", "SR425-706"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.True(t, ok, "expected a key for %q", tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_NoKey(t *testing.T) {
	for _, raw := range []string{
		"",
		"not a style",
		"SR12-34",
		"12345",
		"SR-ABC-DEF",
		"_103_1",
	} {
		t.Run(raw, func(t *testing.T) {
			got, ok := Normalize(raw)
			assert.False(t, ok, "expected no key for %q, got %q", raw, got)
			assert.Empty(t, got)
		})
	}
}

// Raw strings differing only in case, separators or a trailing underscore
// suffix must land on the same key.
func TestNormalize_EquivalenceClasses(t *testing.T) {
	classes := [][]string{
		{"SR425-706", "SR425706", "sr 425 706", "SR425-706_103_1"},
		{"SR111-222", "111222", "111-222", "SR111222_9"},
	}

	for _, class := range classes {
		want, ok := Normalize(class[0])
		assert.True(t, ok)
		for _, raw := range class[1:] {
			got, ok := Normalize(raw)
			assert.True(t, ok, "raw %q", raw)
			assert.Equal(t, want, got, "raw %q", raw)
		}
	}
}

func TestNormalize_FirstMatchWins(t *testing.T) {
	got, ok := Normalize("SR425-706 SR999-888")
	assert.True(t, ok)
	assert.Equal(t, "SR425-706", got)

	// A bare run before an SR-prefixed one: the prefixed pattern is tried
	// first across the whole string.
	got, ok = Normalize("123456 SR425-706")
	assert.True(t, ok)
	assert.Equal(t, "SR425-706", got)
}

func TestTrimSuffixAfterUnderscore(t *testing.T) {
	assert.Equal(t, "SR425-706", TrimSuffixAfterUnderscore("SR425-706_103_1"))
	assert.Equal(t, "SR425-706", TrimSuffixAfterUnderscore("SR425-706"))
	assert.Equal(t, "", TrimSuffixAfterUnderscore("_trailing"))
}
