package media

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// previewWidth is the fixed montage clip width; height follows the
// source aspect ratio.
const previewWidth = 320

// MontageParams returns the clip count and per-clip duration (seconds)
// for a montage preview of a source with the given total duration.
//
// The defaults sample nine 2-second clips. Shorter sources get fewer,
// shorter clips, and sources too short for even that fall back to three
// clips of a quarter of the duration each (at least one second).
func MontageParams(duration float64) (clipCount, clipSeconds int) {
	clipCount = 9
	clipSeconds = 2

	if duration < 20 {
		clipCount = 5
		clipSeconds = 1
	}

	if float64(clipCount*clipSeconds) > duration {
		clipCount = 3
		clipSeconds = int(duration / 4)
		if clipSeconds < 1 {
			clipSeconds = 1
		}
	}

	return clipCount, clipSeconds
}

// montageStarts returns the evenly distributed clip start times for a
// source of the given duration: duration/(n+1)*i for i in 1..n.
func montageStarts(duration float64, clipCount int) []float64 {
	starts := make([]float64, 0, clipCount)
	step := duration / float64(clipCount+1)
	for i := 1; i <= clipCount; i++ {
		start := step * float64(i)
		if start < 0 {
			start = 0
		}
		starts = append(starts, start)
	}
	return starts
}

// montageFilter builds the ffmpeg filter_complex expression that trims
// one sub-clip per start time, resets its presentation timestamps,
// scales it, and concatenates everything video-only.
func montageFilter(duration float64) string {
	clipCount, clipSeconds := MontageParams(duration)
	starts := montageStarts(duration, clipCount)

	var filters []string
	var inputs strings.Builder

	for i, start := range starts {
		filters = append(filters, fmt.Sprintf(
			"[0:v]trim=start=%s:duration=%d,setpts=PTS-STARTPTS,scale=%d:-2[v%d]",
			strconv.FormatFloat(start, 'f', -1, 64), clipSeconds, previewWidth, i))
		fmt.Fprintf(&inputs, "[v%d]", i)
	}

	filters = append(filters, fmt.Sprintf("%sconcat=n=%d:v=1:a=0[outv]", inputs.String(), clipCount))
	return strings.Join(filters, ";")
}

// GeneratePreview builds the montage preview clip for a job and writes
// it to the job's output path.
func GeneratePreview(job Job) error {
	cmd := exec.Command("ffmpeg",
		"-i", job.SourcePath,
		"-filter_complex", montageFilter(job.Duration),
		"-map", "[outv]",
		"-an",
		"-y",
		job.OutputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg montage build: %w - %s", err, stderr.String())
	}
	return nil
}
