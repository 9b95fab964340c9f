// test/e2e/e2e_test.go
package e2e

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catalog-enricher/internal/archive"
	"catalog-enricher/internal/cache"
	"catalog-enricher/internal/captioner"
	"catalog-enricher/internal/common/config"
	"catalog-enricher/internal/common/logger"
	"catalog-enricher/internal/composer"
	"catalog-enricher/internal/models"
	"catalog-enricher/internal/pipeline"
	"catalog-enricher/internal/spreadsheet"
	"catalog-enricher/internal/tags"
)

// fixture bundles everything one enrichment run needs: an input workbook,
// photo archives, a file cache store and an output location.
type fixture struct {
	dir       string
	inputPath string
	cachePath string
	outPath   string
}

func newFixture(t *testing.T, rows [][]string, archives ...[]byte) (*fixture, [][]byte) {
	t.Helper()
	dir := t.TempDir()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []string{"Style Number", "Style Name", "Quality", "B2C Tags", "Description"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	inputPath := filepath.Join(dir, "catalog.xlsx")
	require.NoError(t, f.SaveAs(inputPath))
	require.NoError(t, f.Close())

	return &fixture{
		dir:       dir,
		inputPath: inputPath,
		cachePath: filepath.Join(dir, "cache.json"),
		outPath:   filepath.Join(dir, "catalog-enriched.xlsx"),
	}, archives
}

func buildZip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, payload := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(payload)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// captionServer fakes the OpenAI-compatible vision endpoint.
func captionServer(t *testing.T, caption string, fail bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "simulated outage", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": caption}},
			},
		})
	}))
}

// run executes one full enrichment: read workbook, index archives, run the
// pipeline against the file cache store, write the output workbook.
func run(t *testing.T, fx *fixture, archives [][]byte, captionerURL string) (models.RunStats, []models.ProductRecord) {
	t.Helper()
	log := logger.NewTestLogger(t)

	workbook, err := spreadsheet.Open(fx.inputPath, "")
	require.NoError(t, err)
	defer workbook.Close()
	records := workbook.Records()

	indexer := archive.NewIndexer(filepath.Join(fx.dir, "spool"), log)
	images, err := indexer.Index(archives)
	require.NoError(t, err)

	cap := captioner.NewVisionCaptioner(config.CaptionerConfig{
		BaseURL:    captionerURL,
		Model:      "gpt-4o-mini",
		Timeout:    5000,
		MaxRetries: 0,
		MaxTokens:  100,
	}, log)

	store := cache.NewFileStore(fx.cachePath)
	p := pipeline.New(cap, composer.NewTemplateComposer(), store,
		tags.NewNormalizer(nil, 0, ""), 1, log, nil)

	stats, err := p.Run(context.Background(), records, images)
	require.NoError(t, err)

	require.NoError(t, workbook.Apply(records))
	require.NoError(t, workbook.SaveAs(fx.outPath))
	return stats, records
}

func readCache(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]string{}
	}
	require.NoError(t, err)
	entries := map[string]string{}
	require.NoError(t, json.Unmarshal(data, &entries))
	return entries
}

func TestEnrichmentRun_GeneratesAndCaches(t *testing.T) {
	fx, archives := newFixture(t,
		[][]string{{"SR100-200", "Summer Blouse", "80% Viscose (TRADEMARK) 20% Nylon", "", ""}},
		buildZip(t, map[string][]byte{"photos/SR100-200.jpg": []byte("jpeg-bytes")}))

	server := captionServer(t, "a blue blouse with long sleeves", false)
	defer server.Close()

	stats, _ := run(t, fx, archives, server.URL)
	assert.Equal(t, 1, stats.Generated)

	cached := readCache(t, fx.cachePath)
	require.Contains(t, cached, "SR100-200")

	out, err := spreadsheet.Open(fx.outPath, "")
	require.NoError(t, err)
	defer out.Close()
	got := out.Records()
	require.Len(t, got, 1)

	description := got[0].Description.Value
	assert.NotEmpty(t, description)
	assert.Equal(t, 3, strings.Count(description, "- "))
	assert.Equal(t, cached["SR100-200"], description)
	// Tags were normalized in the same pass.
	assert.Equal(t, "Blouse,Nylon,Top,Viscose", got[0].B2CTags.Value)
}

func TestEnrichmentRun_SecondRunIsIdempotent(t *testing.T) {
	rows := [][]string{{"SR100-200", "Summer Blouse", "100% Cotton", "", ""}}
	archives := []([]byte){buildZip(t, map[string][]byte{"SR100-200.jpg": []byte("jpeg-bytes")})}
	fx, _ := newFixture(t, rows)

	server := captionServer(t, "a blue blouse", false)
	defer server.Close()

	stats, first := run(t, fx, archives, server.URL)
	require.Equal(t, 1, stats.Generated)

	stats, second := run(t, fx, archives, server.URL)
	assert.Equal(t, 1, stats.CacheHits)
	assert.Equal(t, 0, stats.Generated)
	assert.Equal(t, first[0].Description.Value, second[0].Description.Value)
}

func TestEnrichmentRun_NoImageDiagnostic(t *testing.T) {
	fx, archives := newFixture(t,
		[][]string{{"SR999-999", "Denim Jacket", "100% Cotton", "", ""}})

	server := captionServer(t, "unused", false)
	defer server.Close()

	stats, records := run(t, fx, archives, server.URL)
	assert.Equal(t, 1, stats.NoImage)
	assert.Equal(t, "No matching image found for style SR999-999", records[0].Description.Value)
	assert.Empty(t, readCache(t, fx.cachePath))
}

func TestEnrichmentRun_CaptionerFailure(t *testing.T) {
	fx, archives := newFixture(t,
		[][]string{{"SR100-200", "Summer Blouse", "100% Cotton", "", ""}},
		buildZip(t, map[string][]byte{"SR100-200.jpg": []byte("jpeg-bytes")}))

	server := captionServer(t, "", true)
	defer server.Close()

	stats, records := run(t, fx, archives, server.URL)
	assert.Equal(t, 1, stats.Failures)
	assert.Contains(t, records[0].Description.Value, "Error generating description")
	// A failed generation must not poison the cache; the next run retries.
	assert.Empty(t, readCache(t, fx.cachePath))
}

func TestEnrichmentRun_MixedBatch(t *testing.T) {
	fx, archives := newFixture(t,
		[][]string{
			{"SR100-200_103_1", "Summer Blouse", "100% Viscose", "", ""},
			{"not a style", "Gizmo", "", "", ""},
			{"sr 300 400", "Knit Cardigan", "100% Wool", "", ""},
		},
		buildZip(t, map[string][]byte{
			"photos/SR100-200_103_1.jpg": []byte("jpeg-a"),
			"misc/lookbook-cover.jpg":    []byte("jpeg-b"),
		}))

	server := captionServer(t, "a garment", false)
	defer server.Close()

	stats, records := run(t, fx, archives, server.URL)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Generated)
	assert.Equal(t, 1, stats.InvalidKey)
	assert.Equal(t, 1, stats.NoImage)

	assert.Equal(t, fmt.Sprintf("No valid style number found in %q", "not a style"),
		records[1].Description.Value)
	assert.Equal(t, "No matching image found for style SR300-400", records[2].Description.Value)
}
