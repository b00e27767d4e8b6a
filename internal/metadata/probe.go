package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"video-gallery/internal/metrics"
)

// Record holds the probe metadata for a single video file. A zero
// Duration marks a failed or missing probe; such records are never
// persisted to the cache.
type Record struct {
	Duration  float64 `json:"duration,omitempty"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	FrameRate float64 `json:"fps,omitempty"`
}

// Valid reports whether the record came from a successful probe.
func (r Record) Valid() bool {
	return r.Duration > 0
}

// Resolution returns "WxH", or "Unknown" when dimensions are missing.
func (r Record) Resolution() string {
	if r.Width > 0 && r.Height > 0 {
		return fmt.Sprintf("%dx%d", r.Width, r.Height)
	}
	return "Unknown"
}

// ProbeFunc extracts metadata for a video file. Implementations return
// an error when the probe itself fails; callers treat that as an empty
// record rather than a fatal condition.
type ProbeFunc func(ctx context.Context, filePath string) (Record, error)

// ffprobeOutput mirrors the subset of `ffprobe -print_format json`
// output the gallery cares about.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Probe runs ffprobe against filePath and decodes the result.
func Probe(ctx context.Context, filePath string) (Record, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		metrics.ProbesTotal.WithLabelValues("error").Inc()
		return Record{}, fmt.Errorf("ffprobe %s: %w - %s", filePath, err, stderr.String())
	}

	var out ffprobeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		metrics.ProbesTotal.WithLabelValues("error").Inc()
		return Record{}, fmt.Errorf("decode ffprobe output for %s: %w", filePath, err)
	}

	rec := Record{}
	rec.Duration, _ = strconv.ParseFloat(out.Format.Duration, 64)

	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		rec.Width = s.Width
		rec.Height = s.Height
		if fps, ok := parseRational(s.RFrameRate); ok {
			rec.FrameRate = fps
		}
		break
	}

	metrics.ProbesTotal.WithLabelValues("success").Inc()
	return rec, nil
}

// parseRational evaluates a frame rate reported as "N/D" (e.g.
// "30000/1001") or a plain number. Malformed input fails closed.
func parseRational(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	num, den, found := strings.Cut(s, "/")
	if !found {
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}

	return n / d, true
}
