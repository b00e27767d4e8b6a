// Package streaming writes live transcoder output to HTTP responses
// with timeout protection.
//
// A transcode stream has no known length and can outlive the client's
// interest, so the writer distinguishes two terminal conditions: the
// client going away (expected, surfaced as ErrClientGone) and a stalled
// consumer (surfaced as ErrWriteTimeout). Data is written in flushed
// chunks so playback can start before the encode finishes.
package streaming
