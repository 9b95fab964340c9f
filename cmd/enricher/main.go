// cmd/enricher/main.go
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"catalog-enricher/internal/archive"
	"catalog-enricher/internal/cache"
	"catalog-enricher/internal/captioner"
	"catalog-enricher/internal/common/config"
	"catalog-enricher/internal/common/database"
	"catalog-enricher/internal/common/logger"
	"catalog-enricher/internal/common/observability"
	"catalog-enricher/internal/composer"
	"catalog-enricher/internal/pipeline"
	"catalog-enricher/internal/spreadsheet"
	"catalog-enricher/internal/tags"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)

	runID := uuid.New().String()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"run_id": runID})

	zapLog.Info("Starting catalog enrichment run",
		zap.String("run_id", runID),
		zap.String("input", cfg.Spreadsheet.InputPath),
		zap.Int("archives", len(cfg.Archive.Paths)),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("composer_strategy", cfg.Composer.Strategy),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Metrics.Enabled {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Metrics endpoint listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				zapLog.Warn("Metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	ctx := context.Background()

	store, cleanup, err := buildCacheStore(ctx, cfg)
	if err != nil {
		zapLog.Fatal("cache store initialization failed", zap.Error(err))
	}
	defer cleanup()

	// --- Read the workbook ---
	workbook, err := spreadsheet.Open(cfg.Spreadsheet.InputPath, cfg.Spreadsheet.Sheet)
	if err != nil {
		zapLog.Fatal("workbook read failed", zap.Error(err))
	}
	defer workbook.Close()
	records := workbook.Records()

	// --- Index the photo archives ---
	archives := make([][]byte, 0, len(cfg.Archive.Paths))
	for _, path := range cfg.Archive.Paths {
		data, err := os.ReadFile(path)
		if err != nil {
			zapLog.Fatal("archive read failed", zap.String("path", path), zap.Error(err))
		}
		archives = append(archives, data)
	}
	indexer := archive.NewIndexer(cfg.Archive.SpoolDir, log)
	images, err := indexer.Index(archives)
	if err != nil {
		zapLog.Fatal("archive indexing failed", zap.Error(err))
	}

	// --- Tag vocabulary ---
	vocabulary := tags.Vocabulary(nil)
	if cfg.Tags.VocabularyPath != "" {
		vocabulary, err = tags.LoadVocabulary(cfg.Tags.VocabularyPath)
		if err != nil {
			zapLog.Fatal("tag vocabulary invalid", zap.Error(err))
		}
	}
	tagNormalizer := tags.NewNormalizer(vocabulary, cfg.Tags.MinCount, cfg.Tags.FillerToken)

	// --- Composition strategy ---
	var comp composer.Composer
	switch cfg.Composer.Strategy {
	case "generative":
		comp = composer.NewGenerativeComposer(cfg.Composer, log)
	default:
		comp = composer.NewTemplateComposer()
	}

	cap := captioner.NewVisionCaptioner(cfg.Captioner, log)

	// --- Run the pipeline ---
	p := pipeline.New(cap, comp, store, tagNormalizer, cfg.Pipeline.Workers, log, obs)
	stats, err := p.Run(ctx, records, images)
	if err != nil {
		zapLog.Fatal("pipeline run failed", zap.Error(err))
	}

	// --- Write the output workbook ---
	if err := workbook.Apply(records); err != nil {
		zapLog.Fatal("workbook update failed", zap.Error(err))
	}
	if err := workbook.SaveAs(cfg.Spreadsheet.OutputPath); err != nil {
		zapLog.Fatal("workbook write failed", zap.Error(err))
	}

	zapLog.Info("Catalog enrichment run finished",
		zap.String("run_id", runID),
		zap.String("output", cfg.Spreadsheet.OutputPath),
		zap.Int("records", stats.Total),
		zap.Int("images_indexed", len(images)),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Int("generated", stats.Generated),
		zap.Int("no_image", stats.NoImage),
		zap.Int("invalid_key", stats.InvalidKey),
		zap.Int("failures", stats.Failures),
	)
}

// buildCacheStore wires the configured cache backend. The returned cleanup
// closes any backing connection.
func buildCacheStore(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	switch cfg.Cache.Backend {
	case "redis":
		client, err := database.NewRedis(cfg.Cache.Redis)
		if err != nil {
			return nil, nil, err
		}
		store := cache.NewRedisStore(client.GetClient(), cfg.Cache.Redis.Key)
		return store, func() { client.Close() }, nil
	case "postgres":
		client, err := database.NewPostgres(cfg.Cache.Postgres)
		if err != nil {
			return nil, nil, err
		}
		store := cache.NewPostgresStore(client.GetDB(), "")
		if err := store.EnsureSchema(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}
		return store, func() { client.Close() }, nil
	default:
		return cache.NewFileStore(cfg.Cache.File.Path), func() {}, nil
	}
}
