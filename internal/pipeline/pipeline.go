// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"catalog-enricher/internal/cache"
	"catalog-enricher/internal/captioner"
	commonerrors "catalog-enricher/internal/common/errors"
	"catalog-enricher/internal/common/logger"
	"catalog-enricher/internal/common/metrics"
	"catalog-enricher/internal/common/observability"
	"catalog-enricher/internal/composer"
	"catalog-enricher/internal/models"
	"catalog-enricher/internal/stylekey"
)

// Pipeline runs the per-record description state machine over a batch.
// Records are independent of each other; the only shared state is the cache
// mapping, which is guarded by a mutex and flushed to the store exactly once
// after the whole batch.
type Pipeline struct {
	captioner     captioner.Captioner
	composer      composer.Composer
	store         cache.Store
	tagNormalizer TagNormalizer
	workers       int
	logger        logger.Logger
	obs           *observability.Observability
}

// TagNormalizer is the tag pass applied to every record alongside the
// description pass.
type TagNormalizer interface {
	Normalize(record *models.ProductRecord)
}

func New(cap captioner.Captioner, comp composer.Composer, store cache.Store, tagNormalizer TagNormalizer, workers int, log logger.Logger, obs *observability.Observability) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		captioner:     cap,
		composer:      comp,
		store:         store,
		tagNormalizer: tagNormalizer,
		workers:       workers,
		logger:        log,
		obs:           obs,
	}
}

// Run processes every record in place and returns per-outcome counts. An
// unreadable cache store degrades to an empty cache; a failing cache save is
// returned as the run error after all records have been processed.
func (p *Pipeline) Run(ctx context.Context, records []models.ProductRecord, images map[string]models.ImageEntry) (models.RunStats, error) {
	cached, err := p.store.Load(ctx)
	if err != nil {
		p.logger.WithError(commonerrors.NewCacheLoadFailedError(err)).
			Warn("Cache unreadable, starting from an empty cache", nil)
		cached = map[string]string{}
	}

	metrics.ImagesIndexed.Set(float64(len(images)))

	state := &runState{cached: cached}
	if p.workers == 1 {
		for i := range records {
			p.processRecord(ctx, &records[i], images, state)
		}
	} else {
		p.runParallel(ctx, records, images, state)
	}

	if state.dirty {
		if err := p.store.Save(ctx, state.cached); err != nil {
			return state.stats, commonerrors.NewCacheSaveFailedError(err)
		}
	}
	return state.stats, nil
}

// runState is the only cross-record state; all access goes through mu when
// the worker pool is active.
type runState struct {
	mu     sync.Mutex
	cached map[string]string
	dirty  bool
	stats  models.RunStats
}

func (s *runState) lookup(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.cached[key]
	return value, ok
}

func (s *runState) put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached[key] = value
	s.dirty = true
}

func (s *runState) add(outcome models.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Add(outcome)
}

func (p *Pipeline) runParallel(ctx context.Context, records []models.ProductRecord, images map[string]models.ImageEntry, state *runState) {
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				p.processRecord(ctx, &records[i], images, state)
			}
		}()
	}
	for i := range records {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
}

func (p *Pipeline) processRecord(ctx context.Context, record *models.ProductRecord, images map[string]models.ImageEntry, state *runState) {
	start := time.Now()

	if p.tagNormalizer != nil {
		p.tagNormalizer.Normalize(record)
	}

	outcome := p.describeRecord(ctx, record, images, state)
	state.add(outcome)

	elapsed := time.Since(start)
	metrics.RecordsProcessed.WithLabelValues(string(outcome)).Inc()
	metrics.RecordDuration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
	if p.obs != nil {
		p.obs.RecordProcessed(ctx, string(outcome))
		p.obs.RecordDuration(ctx, elapsed, string(outcome))
	}

	p.logger.Debug("Record processed", map[string]interface{}{
		"row":     record.RowIndex,
		"outcome": string(outcome),
	})
}

func (p *Pipeline) describeRecord(ctx context.Context, record *models.ProductRecord, images map[string]models.ImageEntry, state *runState) models.Outcome {
	key, ok := stylekey.Normalize(record.StyleIdentifierRaw)
	if !ok {
		record.Description = models.Some(fmt.Sprintf("No valid style number found in %q", record.StyleIdentifierRaw))
		return models.OutcomeInvalidKey
	}

	if cached, hit := state.lookup(key); hit {
		record.Description = models.Some(cached)
		return models.OutcomeCacheHit
	}

	entry, found := images[key]
	if !found {
		record.Description = models.Some("No matching image found for style " + key)
		return models.OutcomeNoImage
	}

	description, err := p.generate(ctx, record, entry, key)
	if err != nil {
		p.logger.WithError(err).Warn("Description generation failed", map[string]interface{}{
			"style_key": key,
			"row":       record.RowIndex,
		})
		record.Description = models.Some("Error generating description: " + diagnosticDetail(err))
		return models.OutcomeFailed
	}

	record.Description = models.Some(description)
	state.put(key, description)
	return models.OutcomeGenerated
}

// diagnosticDetail renders an error for the output spreadsheet: the cell has
// to make sense to whoever reads the workbook, so structured errors expose
// their message and details instead of the code-tagged form.
func diagnosticDetail(err error) string {
	var stdErr *commonerrors.StandardError
	if errors.As(err, &stdErr) && stdErr.Details != "" {
		return fmt.Sprintf("%s (%s)", stdErr.Message, stdErr.Details)
	}
	return err.Error()
}

func (p *Pipeline) generate(ctx context.Context, record *models.ProductRecord, entry models.ImageEntry, key string) (string, error) {
	imageBytes, err := os.ReadFile(entry.Path)
	if err != nil {
		metrics.CaptionerFailures.WithLabelValues("read").Inc()
		return "", fmt.Errorf("read image %s: %w", entry.Path, err)
	}

	caption, err := p.captioner.Caption(ctx, imageBytes, entry.Extension)
	if err != nil {
		metrics.CaptionerFailures.WithLabelValues("caption").Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			return "", commonerrors.NewCaptionTimeoutError(key)
		}
		return "", commonerrors.NewCaptionFailedError(key, err)
	}

	description, err := p.composer.Compose(ctx, *record, caption)
	if err != nil {
		metrics.CaptionerFailures.WithLabelValues("compose").Inc()
		return "", commonerrors.NewGenerationFailedError(key, err)
	}
	return description, nil
}
