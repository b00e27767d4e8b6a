package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name     string
		relPath  string
		expected string
	}{
		{"Top-level file", "video.mp4", "video.mp4"},
		{"One level deep", filepath.Join("subdir", "video.mp4"), "subdir__video.mp4"},
		{"Two levels deep", filepath.Join("a", "b", "video.mp4"), "a__b__video.mp4"},
		{"Forward slashes", "a/b/video.mp4", "a__b__video.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Flatten(tt.relPath); got != tt.expected {
				t.Errorf("Flatten(%q) = %q, want %q", tt.relPath, got, tt.expected)
			}
		})
	}
}

func TestDerivedNames(t *testing.T) {
	rel := filepath.Join("shows", "pilot.mkv")

	if got := ThumbnailName(rel); got != "shows__pilot.mkv.jpg" {
		t.Errorf("ThumbnailName = %q, want shows__pilot.mkv.jpg", got)
	}

	if got := PreviewName(rel); got != "shows__pilot.mkv_preview_9.mp4" {
		t.Errorf("PreviewName = %q, want shows__pilot.mkv_preview_9.mp4", got)
	}
}

func TestIsVideo(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"movie.mp4", true},
		{"movie.MP4", true},
		{"movie.webm", true},
		{"movie.mov", true},
		{"movie.mkv", true},
		{"movie.avi", false},
		{"notes.txt", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsVideo(tt.name); got != tt.expected {
			t.Errorf("IsVideo(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		rel     string
		wantErr bool
	}{
		{"Simple file", "a.mp4", false},
		{"Nested file", filepath.Join("sub", "a.mp4"), false},
		{"Parent escape", filepath.Join("..", "..", "etc", "passwd"), true},
		{"Escape through subdir", filepath.Join("sub", "..", "..", "outside.mp4"), true},
		{"Dot is root", ".", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoin(root, tt.rel)
			if tt.wantErr {
				if err != ErrUnsafePath {
					t.Errorf("SafeJoin(%q) error = %v, want ErrUnsafePath", tt.rel, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SafeJoin(%q) unexpected error: %v", tt.rel, err)
			}
			if !within(root, got) {
				t.Errorf("SafeJoin(%q) = %q, not within root %q", tt.rel, got, root)
			}
		})
	}
}

func TestSafeJoinSiblingPrefix(t *testing.T) {
	// /tmp/xxx-evil must not pass a containment check against /tmp/xxx.
	root := t.TempDir()
	sibling := root + "-evil"

	rel, err := filepath.Rel(root, filepath.Join(sibling, "a.mp4"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := SafeJoin(root, rel); err != ErrUnsafePath {
		t.Errorf("SafeJoin into sibling dir error = %v, want ErrUnsafePath", err)
	}
}

func TestWithinRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	inside := filepath.Join(root, "a.mp4")
	if err := os.WriteFile(inside, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	secret := filepath.Join(outside, "secret.mp4")
	if err := os.WriteFile(secret, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(root, "link.mp4")
	if err := os.Symlink(secret, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	ok, err := WithinRoot(root, inside)
	if err != nil || !ok {
		t.Errorf("WithinRoot(regular file) = %v, %v; want true, nil", ok, err)
	}

	ok, err = WithinRoot(root, link)
	if err != nil {
		t.Fatalf("WithinRoot(symlink) unexpected error: %v", err)
	}
	if ok {
		t.Error("WithinRoot(symlink to outside) = true, want false")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.mp4")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if !Exists(file) {
		t.Error("Exists(present file) = false")
	}
	if Exists(filepath.Join(dir, "absent.mp4")) {
		t.Error("Exists(absent file) = true")
	}
}
