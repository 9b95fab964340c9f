// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enricher_records_processed_total",
			Help: "Total number of records processed, by pipeline outcome",
		},
		[]string{"outcome"},
	)

	CaptionerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enricher_captioner_failures_total",
			Help: "Total number of failed captioner or generation calls",
		},
		[]string{"stage"},
	)

	RecordDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "enricher_record_duration_seconds",
			Help: "Duration of per-record processing in seconds",
		},
		[]string{"outcome"},
	)

	ImagesIndexed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enricher_images_indexed",
			Help: "Number of images bound to a style key in the current run",
		},
	)
)
