// internal/tags/normalizer.go
package tags

import (
	"regexp"
	"sort"
	"strings"

	"catalog-enricher/internal/models"
)

var (
	percentPattern     = regexp.MustCompile(`\d+(?:\.\d+)?\s*%`)
	parentheticPattern = regexp.MustCompile(`\([^)]*\)`)
)

// Normalizer derives the tag set for a record from its existing tags, its
// style name and its composition string.
type Normalizer struct {
	vocabulary Vocabulary
	minCount   int
	filler     string
}

// NewNormalizer builds a Normalizer. minCount <= 0 disables backfilling;
// filler is the token appended until minCount is reached when enabled.
func NewNormalizer(vocabulary Vocabulary, minCount int, filler string) *Normalizer {
	if vocabulary == nil {
		vocabulary = DefaultVocabulary()
	}
	return &Normalizer{vocabulary: vocabulary, minCount: minCount, filler: filler}
}

// Normalize rebuilds the record's B2C Tags field as the union of its
// existing tags, the vocabulary synonyms whose keyword occurs in the style
// name, and the material tokens parsed out of the composition string. Union
// is commutative, so the result does not depend on vocabulary order, and the
// whole operation is a fixed point: running it twice changes nothing.
//
// An absent B2C Tags field stays absent when nothing is derived; deriving
// even one tag makes it present.
func (n *Normalizer) Normalize(record *models.ProductRecord) {
	set := Parse(record.B2CTags.OrEmpty())

	styleName := strings.ToLower(record.StyleName)
	for keyword, synonyms := range n.vocabulary {
		if strings.Contains(styleName, strings.ToLower(keyword)) {
			for _, synonym := range synonyms {
				set.Add(synonym)
			}
		}
	}

	for _, token := range QualityTokens(record.Quality.OrEmpty()) {
		set.Add(token)
	}

	if set.Len() == 0 && !record.B2CTags.Present {
		return
	}
	record.B2CTags = models.Some(n.serialize(set))
}

// serialize renders the set, appending the filler token until the minimum
// tag count is reached when backfilling is enabled.
func (n *Normalizer) serialize(set Set) string {
	tokens := make([]string, 0, set.Len())
	for token := range set {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	// Backfill repeats the filler token in the wire format only; the set
	// itself stays duplicate-free.
	for n.minCount > 0 && n.filler != "" && len(tokens) < n.minCount {
		tokens = append(tokens, n.filler)
	}
	return strings.Join(tokens, ",")
}

// QualityTokens extracts material tokens from a composition string such as
// "80% Viscose (TRADEMARK) 20% Nylon": percentages and parenthetical
// annotations are removed, hyphens become separators, and the remainder is
// split on whitespace.
func QualityTokens(quality string) []string {
	cleaned := percentPattern.ReplaceAllString(quality, " ")
	cleaned = parentheticPattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.NewReplacer("-", " ", ",", " ", "/", " ").Replace(cleaned)
	return strings.Fields(cleaned)
}
