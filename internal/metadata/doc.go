// Package metadata extracts and caches per-video probe metadata.
//
// Probing shells out to ffprobe and decodes its JSON output. Results are
// memoized in a Cache keyed by a content fingerprint (absolute path,
// modification time in milliseconds, byte size), so an unchanged file is
// probed exactly once across process restarts. The cache is persisted as
// a flat JSON snapshot, written synchronously on every successful probe.
//
// A failed probe yields an empty record and is deliberately not cached:
// the file will be probed again on the next listing.
package metadata
