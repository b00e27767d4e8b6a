package library

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"video-gallery/internal/assets"
	"video-gallery/internal/logging"
	"video-gallery/internal/media"
	"video-gallery/internal/metadata"
	"video-gallery/internal/metrics"
)

const (
	// scanBatchSize bounds concurrent probe/stat work during a scan.
	scanBatchSize = 5

	// previewMinSeconds is the minimum known duration before a montage
	// preview is worth generating.
	previewMinSeconds = 5
)

// Video is one entry of the library listing.
type Video struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Thumbnail  *string   `json:"thumbnail"`
	Preview    *string   `json:"preview"`
	Size       int64     `json:"size"`
	Date       time.Time `json:"date"`
	Duration   float64   `json:"duration"`
	Resolution string    `json:"resolution"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
}

// Scanner discovers videos and coordinates the cache and the two
// generation queues. It holds no state of its own.
type Scanner struct {
	videoDir string
	thumbDir string

	cache      *metadata.Cache
	thumbnails *media.Queue
	previews   *media.Queue
}

// NewScanner creates a Scanner over videoDir, storing derived assets in
// thumbDir.
func NewScanner(videoDir, thumbDir string, cache *metadata.Cache, thumbnails, previews *media.Queue) *Scanner {
	return &Scanner{
		videoDir:   videoDir,
		thumbDir:   thumbDir,
		cache:      cache,
		thumbnails: thumbnails,
		previews:   previews,
	}
}

// List enumerates all videos under the library root, enqueueing asset
// generation for whatever is missing, and returns the listing in
// discovery order.
func (s *Scanner) List(ctx context.Context) ([]Video, error) {
	start := time.Now()

	files, err := s.discover()
	if err != nil {
		metrics.ScansTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	logging.Info("Found %d videos in %s", len(files), s.videoDir)

	// Fixed-size batches bound concurrent probes; the indexed results
	// slice keeps the response in discovery order regardless of which
	// batch member finishes first.
	results := make([]*Video, len(files))

	for batchStart := 0; batchStart < len(files); batchStart += scanBatchSize {
		batchEnd := batchStart + scanBatchSize
		if batchEnd > len(files) {
			batchEnd = len(files)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := batchStart; i < batchEnd; i++ {
			i := i
			g.Go(func() error {
				results[i] = s.process(gctx, files[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			metrics.ScansTotal.WithLabelValues("error").Inc()
			return nil, err
		}
	}

	videos := make([]Video, 0, len(results))
	for _, v := range results {
		if v != nil {
			videos = append(videos, *v)
		}
	}

	metrics.ScansTotal.WithLabelValues("success").Inc()
	metrics.ScanDuration.Observe(time.Since(start).Seconds())
	metrics.ScanVideosListed.Observe(float64(len(videos)))

	return videos, nil
}

// discover walks the library root and returns the relative paths of all
// video files, in lexical walk order.
func (s *Scanner) discover() ([]string, error) {
	var files []string

	err := filepath.WalkDir(s.videoDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !assets.IsVideo(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(s.videoDir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// process builds the listing entry for one video, enqueueing any
// missing derived assets. Errors are logged and the file is dropped
// from the listing by returning nil.
func (s *Scanner) process(ctx context.Context, rel string) *Video {
	fullPath := filepath.Join(s.videoDir, rel)

	info, err := os.Stat(fullPath)
	if err != nil {
		logging.Error("Error processing file %s: %v", rel, err)
		return nil
	}

	flat := assets.Flatten(rel)
	thumbPath := filepath.Join(s.thumbDir, flat+".jpg")
	previewPath := filepath.Join(s.thumbDir, flat+assets.PreviewSuffix)

	rec := s.cache.Get(ctx, fullPath, info)

	name := filepath.ToSlash(rel)
	video := &Video{
		Name:       name,
		URL:        "/api/stream?file=" + url.QueryEscape(name),
		Size:       info.Size(),
		Date:       info.ModTime(),
		Duration:   rec.Duration,
		Resolution: rec.Resolution(),
		Width:      rec.Width,
		Height:     rec.Height,
	}

	if thumbInfo, err := os.Stat(thumbPath); err == nil {
		u := thumbnailURL(flat, thumbInfo.ModTime())
		video.Thumbnail = &u
	} else {
		s.thumbnails.Enqueue(media.Job{
			SourcePath: fullPath,
			OutputPath: thumbPath,
			Label:      name,
		})
	}

	if assets.Exists(previewPath) {
		u := "/thumbnails/" + url.PathEscape(flat+assets.PreviewSuffix)
		video.Preview = &u
	} else if rec.Duration > previewMinSeconds {
		s.previews.Enqueue(media.Job{
			SourcePath: fullPath,
			OutputPath: previewPath,
			Label:      name,
			Duration:   rec.Duration,
		})
	}

	return video
}

// thumbnailURL builds the thumbnail URL, cache-busted with the
// thumbnail file's own modification time so a re-uploaded cover is
// picked up immediately.
func thumbnailURL(flat string, modTime time.Time) string {
	return "/thumbnails/" + url.PathEscape(flat+".jpg") +
		"?t=" + strconv.FormatInt(modTime.UnixMilli(), 10)
}
