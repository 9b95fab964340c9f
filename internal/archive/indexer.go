// internal/archive/indexer.go
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	commonerrors "catalog-enricher/internal/common/errors"
	"catalog-enricher/internal/common/logger"
	"catalog-enricher/internal/models"
	"catalog-enricher/internal/stylekey"
)

// imageExtensions are the only archive entries considered product photos.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Indexer extracts image entries from zip archives and binds them to
// StyleKeys. Extracted payloads are spooled to a run-scoped directory so the
// pipeline can read them back without holding every image in memory.
type Indexer struct {
	spoolDir string
	logger   logger.Logger
}

func NewIndexer(spoolDir string, log logger.Logger) *Indexer {
	return &Indexer{
		spoolDir: spoolDir,
		logger:   log.WithFields(map[string]interface{}{"component": "archive-indexer"}),
	}
}

// Index processes the archives in the given order and merges their image
// entries into one key-unique mapping. A later archive's entry for a key
// supersedes an earlier one, and within an archive the last entry wins.
//
// Entries whose names yield no StyleKey are skipped silently; archives
// routinely contain lookbook shots and packaging photos that match nothing.
// A corrupt archive is fatal: the caller gets an error and no mapping.
func (ix *Indexer) Index(archives [][]byte) (map[string]models.ImageEntry, error) {
	if err := os.MkdirAll(ix.spoolDir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}

	index := make(map[string]models.ImageEntry)
	for i, data := range archives {
		if err := ix.indexOne(data, index); err != nil {
			return nil, fmt.Errorf("archive %d: %w", i+1, err)
		}
	}

	ix.logger.Info("archive indexing complete", map[string]interface{}{
		"archives": len(archives),
		"images":   len(index),
	})
	return index, nil
}

func (ix *Indexer) indexOne(data []byte, index map[string]models.ImageEntry) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return commonerrors.NewArchiveCorruptError(err)
	}

	matched, skipped := 0, 0
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(file.Name))
		if !imageExtensions[ext] {
			continue
		}

		key, ok := keyFromEntryName(file.Name)
		if !ok {
			skipped++
			continue
		}

		entry, err := ix.spool(file, key, ext)
		if err != nil {
			return err
		}
		index[key] = entry // overwrite semantics: last extracted wins
		matched++
	}

	ix.logger.Debug("archive scanned", map[string]interface{}{
		"matched": matched,
		"skipped": skipped,
	})
	return nil
}

// keyFromEntryName derives a StyleKey from an archive member name: base name
// without directory or extension, underscore-truncated, then normalized.
func keyFromEntryName(name string) (string, bool) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = stylekey.TrimSuffixAfterUnderscore(base)
	return stylekey.Normalize(base)
}

func (ix *Indexer) spool(file *zip.File, key, ext string) (models.ImageEntry, error) {
	rc, err := file.Open()
	if err != nil {
		return models.ImageEntry{}, fmt.Errorf("open entry %s: %w", file.Name, err)
	}
	defer rc.Close()

	dest := filepath.Join(ix.spoolDir, key+ext)
	out, err := os.Create(dest)
	if err != nil {
		return models.ImageEntry{}, fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	size, err := io.Copy(out, rc)
	if err != nil {
		return models.ImageEntry{}, fmt.Errorf("extract %s: %w", file.Name, err)
	}

	return models.ImageEntry{
		StyleKey:  key,
		Path:      dest,
		Extension: ext,
		Size:      size,
	}, nil
}
