// internal/tags/vocabulary.go
package tags

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	commonerrors "catalog-enricher/internal/common/errors"
)

// Vocabulary maps a style-name keyword (matched as a case-insensitive
// substring) to the tag synonyms it contributes.
type Vocabulary map[string][]string

// VocabularySchema is the JSON Schema a vocabulary file must satisfy: an
// object whose every value is a non-empty array of non-empty strings.
const VocabularySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {
    "type": "array",
    "minItems": 1,
    "items": {"type": "string", "minLength": 1}
  }
}`

// DefaultVocabulary covers the garment types and categories the catalog
// actually carries. A vocabulary file replaces it wholesale when configured.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"shirt":    {"Shirt", "Top"},
		"blouse":   {"Blouse", "Top"},
		"t-shirt":  {"T-Shirt", "Top"},
		"top":      {"Top"},
		"dress":    {"Dress"},
		"skirt":    {"Skirt"},
		"trouser":  {"Trousers", "Bottom"},
		"pant":     {"Trousers", "Bottom"},
		"short":    {"Shorts", "Bottom"},
		"jacket":   {"Jacket", "Outerwear"},
		"coat":     {"Coat", "Outerwear"},
		"blazer":   {"Blazer", "Outerwear"},
		"cardigan": {"Cardigan", "Knitwear"},
		"pullover": {"Pullover", "Knitwear"},
		"sweater":  {"Sweater", "Knitwear"},
		"knit":     {"Knitwear"},
		"jumpsuit": {"Jumpsuit"},
		"vest":     {"Vest"},
	}
}

// LoadVocabulary reads and schema-validates a vocabulary file.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file %s: %w", path, err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary validates raw vocabulary JSON against VocabularySchema and
// decodes it. Validation failures report every offending field at once.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(VocabularySchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate vocabulary: %w", err)
	}
	if !result.Valid() {
		details := ""
		for _, desc := range result.Errors() {
			if details != "" {
				details += "; "
			}
			details += desc.String()
		}
		return nil, commonerrors.NewVocabularyInvalidError(details)
	}

	vocab := Vocabulary{}
	if err := json.Unmarshal(data, &vocab); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	return vocab, nil
}
