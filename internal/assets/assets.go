package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafePath indicates that a client-supplied relative path resolves
// outside the directory it was joined against.
var ErrUnsafePath = errors.New("path escapes base directory")

// flattenMarker replaces path separators when deriving asset filenames,
// e.g. "subdir/video.mp4" -> "subdir__video.mp4".
const flattenMarker = "__"

// PreviewSuffix is appended to the flattened name to form the montage
// preview filename. The 9 is the default clip count baked into the
// naming convention.
const PreviewSuffix = "_preview_9.mp4"

// VideoExtensions is the set of file extensions recognized as videos
// by the library scanner. Keys are lowercase and include the dot.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".mkv":  true,
}

// IsVideo reports whether name has a recognized video extension.
func IsVideo(name string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(name))]
}

// Flatten converts a library-relative path into a single filesystem-safe
// token. Both the OS separator and forward slashes are replaced so the
// result is stable regardless of how the relative path was produced.
func Flatten(relPath string) string {
	flat := strings.ReplaceAll(relPath, string(filepath.Separator), flattenMarker)
	return strings.ReplaceAll(flat, "/", flattenMarker)
}

// ThumbnailName returns the cover thumbnail filename for a video.
func ThumbnailName(relPath string) string {
	return Flatten(relPath) + ".jpg"
}

// PreviewName returns the montage preview filename for a video.
func PreviewName(relPath string) string {
	return Flatten(relPath) + PreviewSuffix
}

// SafeJoin joins rel onto root and verifies the result stays inside root.
// It returns the absolute joined path, or ErrUnsafePath when rel escapes
// via ".." segments or an absolute path.
func SafeJoin(root, rel string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	full, err := filepath.Abs(filepath.Join(absRoot, rel))
	if err != nil {
		return "", err
	}

	if !within(absRoot, full) {
		return "", ErrUnsafePath
	}

	return full, nil
}

// WithinRoot reports whether path, after following symlinks, still lives
// inside root. Both arguments must exist on disk. A video reachable only
// through a symlink that points outside the library is treated the same
// as a ".." escape.
func WithinRoot(root, path string) (bool, error) {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return false, err
	}

	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false, err
	}

	return within(realRoot, realPath), nil
}

// within reports whether path equals root or is a descendant of it.
// Plain prefix matching is not enough: /lib-evil would pass a prefix
// check against /lib.
func within(root, path string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

// Exists reports whether path exists on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
