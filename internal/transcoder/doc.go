// Package transcoder decides how a playback request is served and
// performs on-the-fly transcoding when nothing better is available.
//
// The resolver prefers, in order: the original file when explicitly
// requested, a pre-rendered MP4 found by naming convention, and finally
// a live ffmpeg transcode streamed to the response as it is produced.
// Every requested path is validated against the library root before any
// decision is made.
//
// Transcoding requires ffmpeg on the PATH.
package transcoder
