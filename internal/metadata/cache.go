package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"video-gallery/internal/logging"
	"video-gallery/internal/metrics"
)

// Fingerprint identifies the content state of a file for caching
// purposes. A change in size or modification time produces a new key;
// stale entries are never pruned, which is an accepted tradeoff for a
// library that only grows.
func Fingerprint(filePath string, info os.FileInfo) string {
	return fmt.Sprintf("%s_%d_%d", filePath, info.ModTime().UnixMilli(), info.Size())
}

// Cache memoizes probe results keyed by fingerprint and mirrors them to
// a JSON snapshot on disk. The snapshot is written synchronously on
// every insert; strict durability is preferred over write batching.
type Cache struct {
	snapshotPath string
	probe        ProbeFunc

	mu      sync.Mutex
	entries map[string]Record
}

// NewCache creates a metadata cache backed by the snapshot file at
// snapshotPath, loading any existing snapshot. A missing or corrupt
// snapshot starts the cache empty.
func NewCache(snapshotPath string, probe ProbeFunc) *Cache {
	c := &Cache{
		snapshotPath: snapshotPath,
		probe:        probe,
		entries:      make(map[string]Record),
	}

	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Error("Failed to load metadata cache: %v", err)
		}
		return c
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		logging.Error("Failed to parse metadata cache, starting empty: %v", err)
		c.entries = make(map[string]Record)
		return c
	}

	logging.Info("Loaded metadata cache with %d entries", len(c.entries))
	metrics.ProbeCacheEntries.Set(float64(len(c.entries)))
	return c
}

// Get returns the metadata for filePath, probing on a cache miss.
// A failed probe returns an empty record and leaves the cache
// untouched, so the file is retried on the next listing.
func (c *Cache) Get(ctx context.Context, filePath string, info os.FileInfo) Record {
	key := Fingerprint(filePath, info)

	c.mu.Lock()
	rec, ok := c.entries[key]
	c.mu.Unlock()

	if ok {
		metrics.ProbeCacheHits.Inc()
		return rec
	}

	metrics.ProbeCacheMisses.Inc()

	rec, err := c.probe(ctx, filePath)
	if err != nil {
		logging.Warn("Probe failed for %s: %v", filePath, err)
		return Record{}
	}

	if !rec.Valid() {
		return rec
	}

	c.mu.Lock()
	c.entries[key] = rec
	size := len(c.entries)
	c.save()
	c.mu.Unlock()

	metrics.ProbeCacheEntries.Set(float64(size))
	return rec
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// save writes the snapshot. Callers must hold c.mu.
func (c *Cache) save() {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		logging.Error("Failed to encode metadata cache: %v", err)
		return
	}

	if err := os.WriteFile(c.snapshotPath, data, 0644); err != nil {
		logging.Error("Failed to save metadata cache: %v", err)
	}
}
