package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"sync"

	"video-gallery/internal/logging"
	"video-gallery/internal/metrics"
	"video-gallery/internal/streaming"
)

// Transcoder runs on-the-fly ffmpeg transcodes and streams their output
// directly to HTTP responses.
type Transcoder struct {
	processMu sync.Mutex
	processes map[string]*exec.Cmd

	streamConfig streaming.Config
}

// Fixed encode parameters. Chosen for broad playback compatibility at
// modest CPU cost: fragmented MP4 so playback can start immediately,
// ultrafast preset, CRF 28, and a 720p height ceiling.
var transcodeArgs = []string{
	"-c:v", "libx264",
	"-c:a", "aac",
	"-movflags", "frag_keyframe+empty_moov",
	"-preset", "ultrafast",
	"-crf", "28",
	"-pix_fmt", "yuv420p",
	"-vf", "scale=-2:720",
	"-f", "mp4",
}

// New creates a Transcoder.
func New() *Transcoder {
	return &Transcoder{
		processes:    make(map[string]*exec.Cmd),
		streamConfig: streaming.DefaultConfig(),
	}
}

// Stream transcodes filePath and writes fragmented MP4 to w as it is
// produced. A client disconnect mid-stream is an expected termination
// and returns nil; any other transcoder failure is returned after
// logging the ffmpeg stderr.
func (t *Transcoder) Stream(ctx context.Context, filePath string, w http.ResponseWriter) error {
	args := append([]string{"-i", filePath}, transcodeArgs...)
	args = append(args, "-")

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	t.processMu.Lock()
	t.processes[filePath] = cmd
	t.processMu.Unlock()

	defer func() {
		t.processMu.Lock()
		delete(t.processes, filePath)
		t.processMu.Unlock()
	}()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	metrics.TranscodesActive.Inc()
	defer metrics.TranscodesActive.Dec()

	written, streamErr := streaming.Copy(ctx, w, stdout, t.streamConfig)
	cmdErr := cmd.Wait()

	if streamErr != nil {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}

		if errors.Is(streamErr, streaming.ErrClientGone) || errors.Is(streamErr, streaming.ErrWriteTimeout) {
			metrics.TranscodesTotal.WithLabelValues("client_gone").Inc()
			logging.Debug("Transcode stream ended early (%v) for %s after %d bytes", streamErr, filePath, written)
			return nil
		}

		metrics.TranscodesTotal.WithLabelValues("error").Inc()
		return streamErr
	}

	if cmdErr != nil {
		if ctx.Err() != nil {
			// ffmpeg was killed because the request context died.
			metrics.TranscodesTotal.WithLabelValues("client_gone").Inc()
			logging.Debug("Transcode canceled for %s", filePath)
			return nil
		}
		metrics.TranscodesTotal.WithLabelValues("error").Inc()
		logging.Error("FFmpeg stderr: %s", stderr.String())
		return fmt.Errorf("transcoding error: %w", cmdErr)
	}

	metrics.TranscodesTotal.WithLabelValues("completed").Inc()
	logging.Debug("Transcode completed for %s: %d bytes", filePath, written)
	return nil
}

// Cleanup kills all active transcoding processes. Called on shutdown.
func (t *Transcoder) Cleanup() {
	t.processMu.Lock()
	defer t.processMu.Unlock()

	for path, cmd := range t.processes {
		if cmd.Process != nil {
			logging.Info("Killing transcoding process for: %s", path)
			if err := cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill transcoding process for %s: %v", path, err)
			}
		}
	}
}

// Active returns the number of transcodes currently running.
func (t *Transcoder) Active() int {
	t.processMu.Lock()
	defer t.processMu.Unlock()
	return len(t.processes)
}
