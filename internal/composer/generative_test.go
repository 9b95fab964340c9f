// internal/composer/generative_test.go
package composer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-enricher/internal/common/config"
	"catalog-enricher/internal/common/logger"
	"catalog-enricher/internal/models"
)

const validGenerated = "Chic Blouse\n\nA breezy silhouette with a relaxed cut.\nExpertly woven from Viscose.\n\n- Lightweight comfort\n- Distinctive draped collar\n- Neat hem finish"

func newGenerative(baseURL string) *GenerativeComposer {
	return NewGenerativeComposer(config.ComposerConfig{
		Strategy:    "generative",
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "gpt-4",
		Timeout:     5000,
		MaxRetries:  0,
		MaxTokens:   200,
		Temperature: 0.8,
	}, logger.NewNoOpLogger())
}

func generativeServer(t *testing.T, reply string, capture *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req.Model)
		assert.InDelta(t, 0.8, req.Temperature, 0.001)
		assert.Equal(t, 200, req.MaxTokens)
		if capture != nil && len(req.Messages) == 2 {
			*capture = req.Messages[1].Content
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": reply}},
			},
		})
	}))
}

func TestGenerativeComposer_BuildsPromptFromRecord(t *testing.T) {
	var prompt string
	server := generativeServer(t, validGenerated, &prompt)
	defer server.Close()

	record := models.ProductRecord{
		StyleName: "Summer Blouse",
		Quality:   models.Some("80% Viscose (TRADEMARK) 20% Nylon"),
	}
	description, err := newGenerative(server.URL).Compose(context.Background(), record, "a woman wearing a blue blouse")
	require.NoError(t, err)
	assert.Equal(t, validGenerated, description)

	assert.Contains(t, prompt, "Product Type: blouse")
	assert.Contains(t, prompt, "Main Material: Viscose")
	assert.Contains(t, prompt, "a blue blouse")
	// The denylisted subject must not reach the prompt.
	assert.NotContains(t, prompt, "woman")
}

func TestGenerativeComposer_UnknownMaterial(t *testing.T) {
	var prompt string
	server := generativeServer(t, validGenerated, &prompt)
	defer server.Close()

	record := models.ProductRecord{StyleName: "Summer Blouse", Quality: models.None()}
	_, err := newGenerative(server.URL).Compose(context.Background(), record, "a blue blouse")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Main Material: Unknown")
}

func TestGenerativeComposer_ContractFailureIsAnError(t *testing.T) {
	server := generativeServer(t, "just one line, no bullets", nil)
	defer server.Close()

	record := models.ProductRecord{StyleName: "Summer Blouse"}
	_, err := newGenerative(server.URL).Compose(context.Background(), record, "a blue blouse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract")
}

func TestGenerativeComposer_ServerFailureIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	record := models.ProductRecord{StyleName: "Summer Blouse"}
	_, err := newGenerative(server.URL).Compose(context.Background(), record, "a blue blouse")
	assert.Error(t, err)
}
