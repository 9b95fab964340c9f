// internal/composer/composer.go
package composer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"catalog-enricher/internal/models"
)

// Composer turns a record and its raw image caption into the final
// marketing description. Strategies are interchangeable; both honor the
// output contract checked by Validate.
type Composer interface {
	Compose(ctx context.Context, record models.ProductRecord, rawCaption string) (string, error)
}

// fashionTypeKeywords is ordered: the first keyword found in the style name
// decides the fashion type. Compound types come before their substrings.
var fashionTypeKeywords = []struct {
	keyword     string
	fashionType string
}{
	{"jumpsuit", "jumpsuit"},
	{"dress", "dress"},
	{"blouse", "blouse"},
	{"t-shirt", "t-shirt"},
	{"shirt", "shirt"},
	{"cardigan", "cardigan"},
	{"pullover", "pullover"},
	{"sweater", "sweater"},
	{"skirt", "skirt"},
	{"trouser", "trousers"},
	{"pant", "trousers"},
	{"shorts", "shorts"},
	{"jacket", "jacket"},
	{"blazer", "blazer"},
	{"coat", "coat"},
	{"vest", "vest"},
	{"top", "top"},
}

// FashionType derives the garment type from the style name. First matching
// keyword wins; "piece" when nothing matches.
func FashionType(styleName string) string {
	lowered := strings.ToLower(styleName)
	for _, entry := range fashionTypeKeywords {
		if strings.Contains(lowered, entry.keyword) {
			return entry.fashionType
		}
	}
	return "piece"
}

var (
	materialSegmentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%\s*([A-Za-z]+)`)
	parentheticalPattern   = regexp.MustCompile(`\([^)]*\)`)
)

// ParseMainMaterial picks the highest-percentage material out of a
// composition string like "80% Viscose (TRADEMARK) 20% Nylon". Ties keep the
// first occurrence; an unparseable or empty string yields "".
func ParseMainMaterial(quality string) string {
	cleaned := parentheticalPattern.ReplaceAllString(quality, " ")
	best := ""
	bestPct := -1.0
	for _, match := range materialSegmentPattern.FindAllStringSubmatch(cleaned, -1) {
		pct, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if pct > bestPct {
			bestPct = pct
			best = match[2]
		}
	}
	return best
}

// captionDenylist names people, animals and scenery the captioner sometimes
// mentions anyway. None of it belongs in product copy.
var captionDenylist = map[string]struct{}{
	"woman": {}, "women": {}, "man": {}, "men": {}, "person": {}, "people": {},
	"model": {}, "girl": {}, "boy": {}, "lady": {}, "female": {}, "male": {},
	"dog": {}, "cat": {}, "animal": {},
	"background": {}, "wall": {}, "floor": {}, "room": {}, "studio": {},
	"standing": {}, "posing": {}, "wearing": {},
}

// FilterCaption drops denylisted words from a raw caption, preserving the
// rest of the word order.
func FilterCaption(rawCaption string) string {
	words := strings.Fields(rawCaption)
	kept := words[:0]
	for _, word := range words {
		trimmed := strings.ToLower(strings.Trim(word, ".,;:!?"))
		if _, banned := captionDenylist[trimmed]; banned {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// Validate checks the shared output contract: non-empty text, a title line
// distinct from the body, exactly three bullet markers, and no denylisted
// caption words.
func Validate(description string) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return fmt.Errorf("description is empty")
	}

	lines := strings.Split(trimmed, "\n")
	title := strings.TrimSpace(lines[0])
	if title == "" || strings.HasPrefix(title, "- ") {
		return fmt.Errorf("description has no title line")
	}

	bullets := 0
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			bullets++
		}
		if line == title {
			return fmt.Errorf("title line repeated in body")
		}
	}
	if bullets != 3 {
		return fmt.Errorf("expected 3 bullet points, found %d", bullets)
	}

	for _, word := range strings.Fields(strings.ToLower(trimmed)) {
		word = strings.Trim(word, ".,;:!?-")
		if _, banned := captionDenylist[word]; banned {
			return fmt.Errorf("description leaks denylisted word %q", word)
		}
	}
	return nil
}
