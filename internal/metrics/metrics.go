package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_gallery_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Library scan metrics
var (
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_gallery_scans_total",
			Help: "Total number of library scans",
		},
		[]string{"status"},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_gallery_scan_duration_seconds",
			Help:    "Library scan duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	ScanVideosListed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_gallery_scan_videos_listed",
			Help:    "Number of videos returned per library scan",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

// Probe and metadata cache metrics
var (
	ProbeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_gallery_probe_cache_hits_total",
			Help: "Metadata cache hits (probe skipped)",
		},
	)

	ProbeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_gallery_probe_cache_misses_total",
			Help: "Metadata cache misses (probe executed)",
		},
	)

	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_gallery_probes_total",
			Help: "Total number of ffprobe invocations",
		},
		[]string{"status"},
	)

	ProbeCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_gallery_probe_cache_entries",
			Help: "Number of entries in the metadata cache",
		},
	)
)

// Generation queue metrics
var (
	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_gallery_queue_depth",
			Help: "Jobs waiting in a generation queue backlog",
		},
		[]string{"queue"},
	)

	QueueJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_gallery_queue_jobs_total",
			Help: "Generation jobs processed, by queue and outcome",
		},
		[]string{"queue", "status"},
	)

	QueueJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_gallery_queue_job_duration_seconds",
			Help:    "Generation job duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"queue"},
	)

	QueueJobsDeduplicated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_gallery_queue_jobs_deduplicated_total",
			Help: "Enqueue attempts rejected because the output was already in flight",
		},
		[]string{"queue"},
	)
)

// Streaming metrics
var (
	TranscodesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_gallery_transcodes_active",
			Help: "On-the-fly transcodes currently running",
		},
	)

	TranscodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_gallery_transcodes_total",
			Help: "On-the-fly transcodes, by outcome",
		},
		[]string{"status"},
	)

	StreamDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_gallery_stream_decisions_total",
			Help: "Stream resolver decisions, by kind",
		},
		[]string{"decision"},
	)
)
