// Package library scans the video library and assembles the listing
// served to the browsing client.
//
// A scan walks the library root for video files, consults the metadata
// cache (probing new files), and checks each video's derived assets,
// enqueueing thumbnail and preview generation for whatever is missing.
// Files are processed in small concurrent batches to bound probe and
// filesystem pressure; a per-file failure drops that file from the
// listing without failing the scan.
package library
