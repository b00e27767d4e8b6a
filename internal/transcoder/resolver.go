package transcoder

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"video-gallery/internal/assets"
	"video-gallery/internal/metrics"
)

// Sentinel errors surfaced to the HTTP layer.
var (
	// ErrAccessDenied indicates the requested path escapes the library
	// root, via ".." segments or a symlink pointing outside it.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotFound indicates the requested file does not exist.
	ErrNotFound = errors.New("file not found")
)

// Flags carries the per-request playback options.
type Flags struct {
	// Download forces an attachment content disposition.
	Download bool
	// Original skips the pre-rendered lookup and serves the source
	// file untouched.
	Original bool
}

// DecisionKind enumerates the delivery strategies.
type DecisionKind int

const (
	// ServeOriginal delivers the source file as-is.
	ServeOriginal DecisionKind = iota
	// ServePreRendered delivers a transcode produced ahead of time.
	ServePreRendered
	// TranscodeOnTheFly transcodes the source live into the response.
	TranscodeOnTheFly
)

// String returns the metrics label for a decision kind.
func (k DecisionKind) String() string {
	switch k {
	case ServeOriginal:
		return "original"
	case ServePreRendered:
		return "prerendered"
	default:
		return "transcode"
	}
}

// Decision is the resolver's answer for one playback request. It is
// derived per request and never persisted.
type Decision struct {
	Kind DecisionKind
	// Path is the file to serve: the original for ServeOriginal and
	// TranscodeOnTheFly, the pre-rendered copy for ServePreRendered.
	Path string
	// DownloadName, when non-empty, is the attachment filename the
	// response must force.
	DownloadName string
}

// Resolver maps playback requests to delivery decisions.
type Resolver struct {
	videoDir string
	mp4Dir   string
}

// NewResolver creates a resolver over the library root. mp4Dir may be
// empty, which disables the pre-rendered lookup entirely.
func NewResolver(videoDir, mp4Dir string) *Resolver {
	return &Resolver{
		videoDir: videoDir,
		mp4Dir:   mp4Dir,
	}
}

// Resolve validates relPath against the library root and picks a
// delivery strategy. It returns ErrAccessDenied for traversal or
// symlink escapes and ErrNotFound for missing files.
func (r *Resolver) Resolve(relPath string, flags Flags) (Decision, error) {
	fullPath, err := assets.SafeJoin(r.videoDir, relPath)
	if err != nil {
		if errors.Is(err, assets.ErrUnsafePath) {
			return Decision{}, ErrAccessDenied
		}
		return Decision{}, err
	}

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return Decision{}, ErrNotFound
		}
		return Decision{}, err
	}

	// The lexical check above cannot see symlinks; re-check against
	// the real paths now that the file is known to exist.
	inside, err := assets.WithinRoot(r.videoDir, fullPath)
	if err != nil {
		return Decision{}, err
	}
	if !inside {
		return Decision{}, ErrAccessDenied
	}

	decision, err := r.decide(relPath, fullPath, flags)
	if err == nil {
		metrics.StreamDecisionsTotal.WithLabelValues(decision.Kind.String()).Inc()
	}
	return decision, err
}

// decide picks the strategy for a validated path.
func (r *Resolver) decide(relPath, fullPath string, flags Flags) (Decision, error) {
	if flags.Original {
		d := Decision{Kind: ServeOriginal, Path: fullPath}
		if flags.Download {
			d.DownloadName = filepath.Base(fullPath)
		}
		return d, nil
	}

	base := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))

	if pre, ok := r.preRendered(base); ok {
		d := Decision{Kind: ServePreRendered, Path: pre}
		if flags.Download {
			d.DownloadName = filepath.Base(pre)
		}
		return d, nil
	}

	d := Decision{Kind: TranscodeOnTheFly, Path: fullPath}
	if flags.Download {
		d.DownloadName = base + ".mp4"
	}
	return d, nil
}

// preRendered looks up a transcode produced ahead of time: <base>.mp4
// first, then the <base>_1.mp4 suffix variant some encoders emit.
func (r *Resolver) preRendered(base string) (string, bool) {
	if r.mp4Dir == "" {
		return "", false
	}

	candidate := filepath.Join(r.mp4Dir, base+".mp4")
	if assets.Exists(candidate) {
		return candidate, true
	}

	candidate = filepath.Join(r.mp4Dir, base+"_1.mp4")
	if assets.Exists(candidate) {
		return candidate, true
	}

	return "", false
}
