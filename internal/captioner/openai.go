// internal/captioner/openai.go
package captioner

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"catalog-enricher/internal/common/config"
	commonhttp "catalog-enricher/internal/common/http"
	"catalog-enricher/internal/common/logger"
	"catalog-enricher/internal/openai"
)

const captionPrompt = "Describe the garment in this product photo in one short sentence. " +
	"Mention only visible attributes: color, pattern, cut, sleeve length, neckline, fabric texture. " +
	"Do not mention the person wearing it, the background, or the setting. Return only the caption."

// VisionCaptioner captions images through an OpenAI-compatible vision chat
// endpoint. The image travels inline as a base64 data URL.
type VisionCaptioner struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	logger      logger.Logger
}

func NewVisionCaptioner(cfg config.CaptionerConfig, log logger.Logger) *VisionCaptioner {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	return &VisionCaptioner{
		client:      openai.NewClient(cfg.BaseURL, cfg.APIKey, commonhttp.NewClient(timeout), cfg.MaxRetries),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     timeout,
		logger:      log,
	}
}

func (c *VisionCaptioner) Caption(ctx context.Context, imageBytes []byte, extension string) (string, error) {
	if len(imageBytes) == 0 {
		return "", fmt.Errorf("empty image payload")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	caption, err := c.client.ChatCompletion(ctx, openai.ChatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.Message{
			{Role: "user", Content: []openai.ContentPart{
				{Type: "text", Text: captionPrompt},
				{Type: "image_url", ImageURL: &openai.ImageURL{URL: dataURL(imageBytes, extension)}},
			}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("caption request: %w", err)
	}
	if caption == "" {
		return "", fmt.Errorf("captioner returned an empty caption")
	}
	if phrase, refused := detectRefusal(caption); refused {
		c.logger.Warn("Captioner refused the image", map[string]interface{}{"phrase": phrase})
		return "", fmt.Errorf("captioner refused: response contains %q", phrase)
	}
	return caption, nil
}

func dataURL(imageBytes []byte, extension string) string {
	mime := "image/jpeg"
	if strings.EqualFold(strings.TrimPrefix(extension, "."), "png") {
		mime = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(imageBytes))
}

// detectRefusal catches the model declining instead of captioning. A refusal
// propagated as a caption would poison the cache for that style.
func detectRefusal(caption string) (string, bool) {
	refusalPhrases := []string{
		"i am unable to",
		"i cannot fulfill",
		"i cannot answer",
		"i cannot provide",
		"as a large language model",
	}
	lowered := strings.ToLower(caption)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lowered, phrase) {
			return phrase, true
		}
	}
	return "", false
}
