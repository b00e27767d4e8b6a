// Package metrics defines the Prometheus collectors exported by the
// video gallery.
//
// Collectors are registered with promauto at package load and cover the
// HTTP surface, library scans, the metadata probe cache, the two
// generation queues, and on-the-fly transcoding. InitializeMetrics
// pre-populates known label combinations so dashboards see every series
// from the first scrape.
package metrics
