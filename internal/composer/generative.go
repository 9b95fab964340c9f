// internal/composer/generative.go
package composer

import (
	"context"
	"fmt"
	"time"

	"catalog-enricher/internal/common/config"
	commonhttp "catalog-enricher/internal/common/http"
	"catalog-enricher/internal/common/logger"
	"catalog-enricher/internal/models"
	"catalog-enricher/internal/openai"
)

const copywriterSystemPrompt = "You are a professional fashion copywriter."

const copywriterPromptTemplate = `You are a professional fashion copywriter specialized in high-end apparel. Using the following product data, generate a unique, compelling, and detailed product description tailored for a fashion website. The description must:
- Begin with a catchy, creative title consisting of 2-3 words that only mention the product type (for example: "Chic Shirt", "Cozy Dress", "Modern Blouse").
- Follow with one sentence describing the product's design, focusing on its unique style, cut, or pattern.
- Include one sentence mentioning the main material in a captivating way, for example "Expertly woven from Viscose".
- Conclude with three bullet points starting with "- " that highlight key features (e.g., comfort, design innovation, attention to detail).
Do not include generic phrases like 'timeless versatility' or unrelated details.

Product Data:
- Product Type: %s
- Main Material: %s
- Image Caption (attributes only): %s

Write the final description in English.`

// GenerativeComposer delegates copy to an OpenAI-compatible text model. The
// raw caption is denylist-filtered before it enters the prompt, and the
// model's output must still pass the shared contract check.
type GenerativeComposer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	logger      logger.Logger
}

func NewGenerativeComposer(cfg config.ComposerConfig, log logger.Logger) *GenerativeComposer {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	return &GenerativeComposer{
		client:      openai.NewClient(cfg.BaseURL, cfg.APIKey, commonhttp.NewClient(timeout), cfg.MaxRetries),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     timeout,
		logger:      log,
	}
}

func (c *GenerativeComposer) Compose(ctx context.Context, record models.ProductRecord, rawCaption string) (string, error) {
	fashionType := FashionType(record.StyleName)
	material := ParseMainMaterial(record.Quality.OrEmpty())
	if material == "" {
		material = "Unknown"
	}

	prompt := fmt.Sprintf(copywriterPromptTemplate, fashionType, material, FilterCaption(rawCaption))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	description, err := c.client.ChatCompletion(ctx, openai.ChatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.Message{
			{Role: "system", Content: copywriterSystemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generation request: %w", err)
	}
	if err := Validate(description); err != nil {
		c.logger.Warn("Generated description failed contract", map[string]interface{}{
			"style_name": record.StyleName,
			"reason":     err.Error(),
		})
		return "", fmt.Errorf("generated output failed contract: %w", err)
	}
	return description, nil
}
