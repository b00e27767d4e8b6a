package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "error"} {
		ScansTotal.WithLabelValues(status)
		ProbesTotal.WithLabelValues(status)
	}

	for _, queue := range []string{"thumbnail", "preview"} {
		QueueDepth.WithLabelValues(queue)
		QueueJobDuration.WithLabelValues(queue)
		QueueJobsDeduplicated.WithLabelValues(queue)
		for _, status := range []string{"success", "error"} {
			QueueJobsTotal.WithLabelValues(queue, status)
		}
	}

	for _, status := range []string{"completed", "client_gone", "error"} {
		TranscodesTotal.WithLabelValues(status)
	}

	for _, decision := range []string{"original", "prerendered", "transcode"} {
		StreamDecisionsTotal.WithLabelValues(decision)
	}
}
