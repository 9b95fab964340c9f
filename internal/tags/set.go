// internal/tags/set.go
package tags

import (
	"sort"
	"strings"
)

// Set is a deduplicated collection of tag tokens. The in-memory
// representation is isolated from the comma-separated wire format used by
// the spreadsheet column; Parse and Serialize are the only crossing points.
type Set map[string]struct{}

// Parse builds a Set from a comma-separated tag string. Empty segments and
// surrounding whitespace are dropped; an empty input yields an empty set.
func Parse(serialized string) Set {
	set := Set{}
	for _, token := range strings.Split(serialized, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			set[token] = struct{}{}
		}
	}
	return set
}

func (s Set) Add(token string) {
	token = strings.TrimSpace(token)
	if token != "" {
		s[token] = struct{}{}
	}
}

func (s Set) Has(token string) bool {
	_, ok := s[token]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Serialize renders the set as a comma-separated string. Tokens are sorted
// so repeated runs over the same record produce byte-identical output.
func (s Set) Serialize() string {
	tokens := make([]string, 0, len(s))
	for token := range s {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return strings.Join(tokens, ",")
}
