package library

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"video-gallery/internal/media"
	"video-gallery/internal/metadata"
)

// fixture wires a scanner over a temp library with stubbed probe and
// blocking queue runners, so no external tools run and enqueued jobs
// stay in flight until released.
type fixture struct {
	scanner  *Scanner
	videoDir string
	thumbDir string
	release  chan struct{}
}

func newFixture(t *testing.T, probe metadata.ProbeFunc) *fixture {
	t.Helper()

	videoDir := t.TempDir()
	thumbDir := t.TempDir()

	release := make(chan struct{})
	blockingRun := func(job media.Job) error {
		<-release
		return nil
	}

	thumbs := media.NewQueue("thumbnail", blockingRun)
	previews := media.NewQueue("preview", blockingRun)
	thumbs.Start()
	previews.Start()
	t.Cleanup(func() {
		select {
		case <-release:
		default:
			close(release)
		}
		thumbs.Stop()
		previews.Stop()
	})

	cache := metadata.NewCache(filepath.Join(t.TempDir(), "cache.json"), probe)

	return &fixture{
		scanner:  NewScanner(videoDir, thumbDir, cache, thumbs, previews),
		videoDir: videoDir,
		thumbDir: thumbDir,
		release:  release,
	}
}

func (f *fixture) addVideo(t *testing.T, rel string) {
	t.Helper()
	full := filepath.Join(f.videoDir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte("video-bytes"), 0644); err != nil {
		t.Fatal(err)
	}
}

func staticProbe(duration float64) metadata.ProbeFunc {
	return func(_ context.Context, _ string) (metadata.Record, error) {
		return metadata.Record{Duration: duration, Width: 1280, Height: 720, FrameRate: 30}, nil
	}
}

func TestListEnqueuesMissingAssetsOnce(t *testing.T) {
	f := newFixture(t, staticProbe(8))
	f.addVideo(t, "a.mp4")

	videos, err := f.scanner.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("got %d videos, want 1", len(videos))
	}

	// 8s exceeds the 5s preview threshold: one job in each lane.
	if got := f.scanner.thumbnails.Pending(); got != 1 {
		t.Errorf("thumbnail jobs pending = %d, want 1", got)
	}
	if got := f.scanner.previews.Pending(); got != 1 {
		t.Errorf("preview jobs pending = %d, want 1", got)
	}

	// A second listing before the jobs finish must not enqueue
	// duplicates.
	if _, err := f.scanner.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := f.scanner.thumbnails.Pending(); got != 1 {
		t.Errorf("thumbnail jobs pending after relist = %d, want 1", got)
	}
	if got := f.scanner.previews.Pending(); got != 1 {
		t.Errorf("preview jobs pending after relist = %d, want 1", got)
	}
}

func TestListSkipsPreviewForShortVideos(t *testing.T) {
	f := newFixture(t, staticProbe(3))
	f.addVideo(t, "short.mp4")

	if _, err := f.scanner.List(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := f.scanner.thumbnails.Pending(); got != 1 {
		t.Errorf("thumbnail jobs pending = %d, want 1", got)
	}
	if got := f.scanner.previews.Pending(); got != 0 {
		t.Errorf("preview jobs pending = %d, want 0 for a 3s video", got)
	}
}

func TestListAssemblesSummary(t *testing.T) {
	f := newFixture(t, staticProbe(42))
	f.addVideo(t, filepath.Join("sub dir", "clip.mkv"))

	videos, err := f.scanner.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 1 {
		t.Fatalf("got %d videos, want 1", len(videos))
	}

	v := videos[0]
	if v.Name != "sub dir/clip.mkv" {
		t.Errorf("Name = %q, want sub dir/clip.mkv", v.Name)
	}
	if v.URL != "/api/stream?file=sub+dir%2Fclip.mkv" {
		t.Errorf("URL = %q", v.URL)
	}
	if v.Duration != 42 {
		t.Errorf("Duration = %v, want 42", v.Duration)
	}
	if v.Resolution != "1280x720" {
		t.Errorf("Resolution = %q, want 1280x720", v.Resolution)
	}
	if v.Size != int64(len("video-bytes")) {
		t.Errorf("Size = %d", v.Size)
	}
	if v.Thumbnail != nil {
		t.Errorf("Thumbnail = %v, want nil while generation is queued", *v.Thumbnail)
	}
	if v.Preview != nil {
		t.Errorf("Preview = %v, want nil while generation is queued", *v.Preview)
	}
}

func TestListReportsExistingAssets(t *testing.T) {
	f := newFixture(t, staticProbe(42))
	f.addVideo(t, "a.mp4")

	// Pre-create both derived assets.
	if err := os.WriteFile(filepath.Join(f.thumbDir, "a.mp4.jpg"), []byte("jpg"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(f.thumbDir, "a.mp4_preview_9.mp4"), []byte("mp4"), 0644); err != nil {
		t.Fatal(err)
	}

	videos, err := f.scanner.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	v := videos[0]
	if v.Thumbnail == nil {
		t.Fatal("Thumbnail = nil, want cache-busted URL")
	}
	if !strings.HasPrefix(*v.Thumbnail, "/thumbnails/a.mp4.jpg?t=") {
		t.Errorf("Thumbnail = %q, want cache-busting query", *v.Thumbnail)
	}
	if v.Preview == nil || *v.Preview != "/thumbnails/a.mp4_preview_9.mp4" {
		t.Errorf("Preview = %v, want /thumbnails/a.mp4_preview_9.mp4", v.Preview)
	}

	if got := f.scanner.thumbnails.Pending(); got != 0 {
		t.Errorf("thumbnail jobs pending = %d, want 0", got)
	}
	if got := f.scanner.previews.Pending(); got != 0 {
		t.Errorf("preview jobs pending = %d, want 0", got)
	}
}

func TestListIgnoresNonVideos(t *testing.T) {
	f := newFixture(t, staticProbe(42))
	f.addVideo(t, "a.mp4")
	f.addVideo(t, "notes.txt")
	f.addVideo(t, ".hidden.mp4")

	videos, err := f.scanner.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 1 {
		t.Fatalf("got %d videos, want 1", len(videos))
	}
	if videos[0].Name != "a.mp4" {
		t.Errorf("Name = %q, want a.mp4", videos[0].Name)
	}
}

func TestListPreservesDiscoveryOrder(t *testing.T) {
	f := newFixture(t, staticProbe(42))
	names := []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4", "f.mp4", "g.mp4"}
	for _, n := range names {
		f.addVideo(t, n)
	}

	videos, err := f.scanner.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != len(names) {
		t.Fatalf("got %d videos, want %d", len(videos), len(names))
	}
	for i, n := range names {
		if videos[i].Name != n {
			t.Errorf("videos[%d].Name = %q, want %q", i, videos[i].Name, n)
		}
	}
}

func TestListFailedProbeStillListsVideo(t *testing.T) {
	probe := func(_ context.Context, _ string) (metadata.Record, error) {
		return metadata.Record{}, os.ErrDeadlineExceeded
	}

	f := newFixture(t, probe)
	f.addVideo(t, "a.mp4")

	videos, err := f.scanner.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 1 {
		t.Fatalf("got %d videos, want 1", len(videos))
	}

	v := videos[0]
	if v.Duration != 0 {
		t.Errorf("Duration = %v, want 0 after failed probe", v.Duration)
	}
	if v.Resolution != "Unknown" {
		t.Errorf("Resolution = %q, want Unknown", v.Resolution)
	}
	// Unknown duration: no preview job.
	if got := f.scanner.previews.Pending(); got != 0 {
		t.Errorf("preview jobs pending = %d, want 0", got)
	}
}
