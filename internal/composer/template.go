// internal/composer/template.go
package composer

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"catalog-enricher/internal/models"
)

// styleWords lead the title line. The pick is a deterministic function of
// the style name, so reruns produce byte-identical descriptions.
var styleWords = []string{"Chic", "Cozy", "Modern", "Refined", "Breezy", "Sleek", "Classic", "Effortless"}

// TemplateComposer assembles the description from fixed sentence templates.
// It needs no network and never fails.
type TemplateComposer struct{}

func NewTemplateComposer() *TemplateComposer {
	return &TemplateComposer{}
}

func (c *TemplateComposer) Compose(ctx context.Context, record models.ProductRecord, rawCaption string) (string, error) {
	fashionType := FashionType(record.StyleName)
	material := ParseMainMaterial(record.Quality.OrEmpty())
	filtered := strings.ToLower(FilterCaption(rawCaption))

	title := fmt.Sprintf("%s %s", pickStyleWord(record.StyleName), titleCase(fashionType))

	design := fmt.Sprintf("A flattering %s with a clean, contemporary cut.", fashionType)
	switch {
	case strings.Contains(filtered, "long sleeve"):
		design = fmt.Sprintf("A flattering %s with long sleeves and a clean, contemporary cut.", fashionType)
	case strings.Contains(filtered, "short sleeve"):
		design = fmt.Sprintf("A flattering %s with short sleeves and a clean, contemporary cut.", fashionType)
	}

	materialSentence := "Crafted with care from carefully selected fabrics."
	if material != "" {
		materialSentence = fmt.Sprintf("Expertly crafted from %s.", material)
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(design)
	b.WriteString("\n")
	b.WriteString(materialSentence)
	b.WriteString("\n\n")
	b.WriteString("- Comfortable fit for all-day wear\n")
	b.WriteString("- Considered design details\n")
	b.WriteString("- Finished with clean seams and stitching")

	description := b.String()
	if err := Validate(description); err != nil {
		return "", fmt.Errorf("template output failed contract: %w", err)
	}
	return description, nil
}

func pickStyleWord(styleName string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(styleName))))
	return styleWords[h.Sum32()%uint32(len(styleWords))]
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
