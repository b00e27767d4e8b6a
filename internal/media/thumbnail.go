package media

import (
	"bytes"
	"fmt"
	"os/exec"
)

// thumbnailWidth is the fixed cover thumbnail width; height follows the
// source aspect ratio.
const thumbnailWidth = 320

// GenerateThumbnail grabs a single frame at the 1-second mark of the
// source, scales it to the fixed width, and writes it to the job's
// output path as JPEG.
func GenerateThumbnail(job Job) error {
	cmd := exec.Command("ffmpeg",
		"-ss", "00:00:01",
		"-i", job.SourcePath,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:-2", thumbnailWidth),
		"-y",
		job.OutputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg frame extraction: %w - %s", err, stderr.String())
	}
	return nil
}
