// internal/stylekey/normalizer.go
package stylekey

import (
	"regexp"
	"strings"
)

// Style numbers arrive in wildly inconsistent shapes: "SR425-706",
// "sr 425 706", "SR425706", "SR425-706_103_1", bare "425706". All of them
// must collapse to the canonical "SR###-###" form before any matching,
// captioning or cache lookup happens.

// Compiled once; Normalize runs for every row and every archive entry.
var (
	// Anything that is not a letter, digit or hyphen is noise.
	noisePattern = regexp.MustCompile(`[^A-Z0-9-]+`)

	// Prefixed form: SR + 3 digits + optional hyphen + 3 digits.
	prefixedPattern = regexp.MustCompile(`SR(\d{3})-?(\d{3})`)

	// Bare form: 3 digits + optional hyphen + 3 digits, no SR prefix.
	barePattern = regexp.MustCompile(`(\d{3})-?(\d{3})`)
)

// Normalize maps an arbitrary raw identifier to its canonical StyleKey.
// It is total and side-effect free; ok is false when no key can be
// extracted, which is an expected condition, not an error.
//
// Both patterns use the leftmost match, so inputs with several digit runs
// resolve to the first qualifying one. No numeric validation is applied
// beyond digit count: "SR000-000" is a valid key.
func Normalize(raw string) (key string, ok bool) {
	if raw == "" {
		return "", false
	}

	s := strings.ToUpper(strings.TrimSpace(raw))

	// Everything after the first underscore is a disambiguator suffix
	// (color code, image sequence) and never part of the style number.
	s = TrimSuffixAfterUnderscore(s)

	s = noisePattern.ReplaceAllString(s, "")
	if s == "" {
		return "", false
	}

	if m := prefixedPattern.FindStringSubmatch(s); m != nil {
		return "SR" + m[1] + "-" + m[2], true
	}
	if m := barePattern.FindStringSubmatch(s); m != nil {
		return "SR" + m[1] + "-" + m[2], true
	}
	return "", false
}

// TrimSuffixAfterUnderscore drops everything from the first underscore on.
// Shared with the archive indexer, which applies it to base file names
// before normalization.
func TrimSuffixAfterUnderscore(s string) string {
	if i := strings.IndexByte(s, '_'); i >= 0 {
		return s[:i]
	}
	return s
}
