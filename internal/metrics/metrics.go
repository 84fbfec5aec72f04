// Package metrics provides Prometheus metrics for the content store engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all Prometheus metrics for a content store run.
type Metrics struct {
	// Indexing metrics
	IndexAssetsTotal      *prometheus.CounterVec
	IndexDuration         *prometheus.HistogramVec
	IndexUniqueChunks     prometheus.Gauge
	IndexBytesHashed      prometheus.Counter

	// Packing metrics
	PackBlocksTotal    *prometheus.CounterVec
	PackDuration       prometheus.Histogram
	PackBlockSizeBytes prometheus.Histogram
	PackOvershoots     prometheus.Counter

	// Writer metrics
	WriteBlocksTotal    *prometheus.CounterVec
	WriteDuration       *prometheus.HistogramVec
	WriteBytesOut       prometheus.Counter
	WriteSkippedExisting prometheus.Counter

	// Reader metrics
	ReadBlocksTotal *prometheus.CounterVec
	ReadDuration    *prometheus.HistogramVec
	ReadCacheHits   prometheus.Counter
	ReadCacheMisses prometheus.Counter

	// Materialize metrics
	MaterializeAssetsTotal *prometheus.CounterVec
	MaterializeDuration    *prometheus.HistogramVec

	// Job metrics
	JobsSubmittedTotal *prometheus.CounterVec
	JobsFailedTotal    *prometheus.CounterVec

	// Catalog metrics
	CatalogVersionsTotal prometheus.Gauge
	CatalogQueryDuration *prometheus.HistogramVec
}

const namespace = "contentstore"

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		IndexAssetsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "index",
				Name:      "assets_total",
				Help:      "Total number of assets indexed, by kind (file/dir).",
			},
			[]string{"kind"},
		),
		IndexDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "index",
				Name:      "duration_seconds",
				Help:      "Time to index a tree into a VersionIndex.",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
			},
			[]string{"result"},
		),
		IndexUniqueChunks: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "index",
				Name:      "unique_chunks",
				Help:      "Unique chunk count in the most recently built VersionIndex.",
			},
		),
		IndexBytesHashed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "index",
				Name:      "bytes_hashed_total",
				Help:      "Total bytes passed through the hasher during indexing.",
			},
		),

		PackBlocksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pack",
				Name:      "blocks_total",
				Help:      "Total number of blocks produced by the packer.",
			},
			[]string{"op"},
		),
		PackDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pack",
				Name:      "duration_seconds",
				Help:      "Time spent packing chunks into blocks.",
				Buckets:   []float64{.001, .01, .1, .5, 1, 5, 10},
			},
		),
		PackBlockSizeBytes: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pack",
				Name:      "block_size_bytes",
				Help:      "Distribution of packed block sizes.",
				Buckets:   prometheus.ExponentialBuckets(1<<16, 2, 10),
			},
		),
		PackOvershoots: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pack",
				Name:      "overshoots_total",
				Help:      "Total number of blocks that exceeded max_block_size within tolerance.",
			},
		),

		WriteBlocksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "write",
				Name:      "blocks_total",
				Help:      "Total number of block write attempts, by outcome.",
			},
			[]string{"outcome"},
		),
		WriteDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "write",
				Name:      "duration_seconds",
				Help:      "Time to write one block.",
				Buckets:   []float64{.001, .01, .05, .1, .5, 1, 5, 10},
			},
			[]string{"outcome"},
		),
		WriteBytesOut: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "write",
				Name:      "bytes_total",
				Help:      "Total compressed bytes written to the store.",
			},
		),
		WriteSkippedExisting: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "write",
				Name:      "skipped_existing_total",
				Help:      "Total block writes skipped because the block already existed.",
			},
		),

		ReadBlocksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "read",
				Name:      "blocks_total",
				Help:      "Total number of block opens, by outcome.",
			},
			[]string{"outcome"},
		),
		ReadDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "read",
				Name:      "duration_seconds",
				Help:      "Time to open and decompress one block.",
				Buckets:   []float64{.001, .01, .05, .1, .5, 1, 5},
			},
			[]string{"outcome"},
		),
		ReadCacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "read",
				Name:      "block_cache_hits_total",
				Help:      "Total file-major materialize chunk reads served by the already-open block.",
			},
		),
		ReadCacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "read",
				Name:      "block_cache_misses_total",
				Help:      "Total file-major materialize chunk reads that required opening a new block.",
			},
		),

		MaterializeAssetsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "materialize",
				Name:      "assets_total",
				Help:      "Total assets materialized, by job kind (dir/block_major/file_major).",
			},
			[]string{"kind"},
		),
		MaterializeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "materialize",
				Name:      "duration_seconds",
				Help:      "Time to materialize a full version.",
				Buckets:   []float64{.01, .1, .5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"result"},
		),

		JobsSubmittedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "jobs",
				Name:      "submitted_total",
				Help:      "Total jobs submitted to a JobRunner, by pool.",
			},
			[]string{"pool"},
		),
		JobsFailedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "jobs",
				Name:      "failed_total",
				Help:      "Total jobs that returned an error, by pool.",
			},
			[]string{"pool"},
		),

		CatalogVersionsTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "versions_total",
				Help:      "Total named versions recorded in the catalog.",
			},
		),
		CatalogQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "query_duration_seconds",
				Help:      "Catalog query duration in seconds.",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"query"},
		),
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordIndex records the outcome of one IndexTree call.
func (m *Metrics) RecordIndex(result string, duration float64, assets, dirs int, uniqueChunks int, bytesHashed int64) {
	m.IndexAssetsTotal.WithLabelValues("file").Add(float64(assets))
	m.IndexAssetsTotal.WithLabelValues("dir").Add(float64(dirs))
	m.IndexDuration.WithLabelValues(result).Observe(duration)
	m.IndexUniqueChunks.Set(float64(uniqueChunks))
	m.IndexBytesHashed.Add(float64(bytesHashed))
}

// RecordPack records the outcome of one Pack call.
func (m *Metrics) RecordPack(duration float64, blockSizes []int64, overshoots int) {
	m.PackBlocksTotal.WithLabelValues("pack").Add(float64(len(blockSizes)))
	m.PackDuration.Observe(duration)
	for _, s := range blockSizes {
		m.PackBlockSizeBytes.Observe(float64(s))
	}
	m.PackOvershoots.Add(float64(overshoots))
}

// RecordWrite records the outcome of one block write.
func (m *Metrics) RecordWrite(outcome string, duration float64, bytesOut int64) {
	m.WriteBlocksTotal.WithLabelValues(outcome).Inc()
	m.WriteDuration.WithLabelValues(outcome).Observe(duration)
	if outcome == "skipped" {
		m.WriteSkippedExisting.Inc()
		return
	}
	m.WriteBytesOut.Add(float64(bytesOut))
}

// RecordRead records the outcome of one block open.
func (m *Metrics) RecordRead(outcome string, duration float64, cacheHit bool) {
	m.ReadBlocksTotal.WithLabelValues(outcome).Inc()
	m.ReadDuration.WithLabelValues(outcome).Observe(duration)
	if cacheHit {
		m.ReadCacheHits.Inc()
	} else {
		m.ReadCacheMisses.Inc()
	}
}

// RecordMaterialize records the outcome of one Materialize call.
func (m *Metrics) RecordMaterialize(result string, duration float64, dirs, blockMajor, fileMajor int) {
	m.MaterializeAssetsTotal.WithLabelValues("dir").Add(float64(dirs))
	m.MaterializeAssetsTotal.WithLabelValues("block_major").Add(float64(blockMajor))
	m.MaterializeAssetsTotal.WithLabelValues("file_major").Add(float64(fileMajor))
	m.MaterializeDuration.WithLabelValues(result).Observe(duration)
}

// RecordJobs records a JobRunner fan-out's submission and failure counts.
func (m *Metrics) RecordJobs(pool string, submitted, failed int) {
	m.JobsSubmittedTotal.WithLabelValues(pool).Add(float64(submitted))
	if failed > 0 {
		m.JobsFailedTotal.WithLabelValues(pool).Add(float64(failed))
	}
}
