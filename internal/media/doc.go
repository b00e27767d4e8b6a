// Package media generates derived video assets in the background.
//
// Two independent serial queues exist per process: one for cover
// thumbnails (a single frame grabbed at the 1-second mark) and one for
// montage previews (short clips sampled across the source and
// concatenated without audio). Each queue runs exactly one ffmpeg job at
// a time and deduplicates on the output path for the whole time a job is
// queued or executing.
//
// Jobs are fire-and-forget: a failure is logged and the worker moves on.
// There is no retry and no backoff.
package media
