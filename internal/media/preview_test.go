package media

import (
	"fmt"
	"strings"
	"testing"
)

func TestMontageParams(t *testing.T) {
	tests := []struct {
		name        string
		duration    float64
		wantClips   int
		wantSeconds int
	}{
		{"Long video", 30, 9, 2},
		{"Exactly twenty seconds", 20, 9, 2},
		{"Short video", 10, 5, 1},
		{"Very short video", 3, 3, 1},
		{"Sub-second video", 0.5, 3, 1},
		{"Fallback boundary", 4.5, 3, 1},
		{"Just under default budget", 19.5, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clips, seconds := MontageParams(tt.duration)
			if clips != tt.wantClips || seconds != tt.wantSeconds {
				t.Errorf("MontageParams(%v) = (%d, %d), want (%d, %d)",
					tt.duration, clips, seconds, tt.wantClips, tt.wantSeconds)
			}
		})
	}
}

func TestMontageStarts(t *testing.T) {
	starts := montageStarts(30, 9)

	if len(starts) != 9 {
		t.Fatalf("got %d starts, want 9", len(starts))
	}

	// Evenly distributed: duration/(n+1)*i.
	step := 30.0 / 10.0
	for i, start := range starts {
		want := step * float64(i+1)
		if start != want {
			t.Errorf("start[%d] = %v, want %v", i, start, want)
		}
	}

	for _, start := range starts {
		if start < 0 {
			t.Errorf("negative start time %v", start)
		}
		if start >= 30 {
			t.Errorf("start time %v beyond source duration", start)
		}
	}
}

func TestMontageFilter(t *testing.T) {
	filter := montageFilter(30)

	// Nine trim chains plus the final concat.
	parts := strings.Split(filter, ";")
	if len(parts) != 10 {
		t.Fatalf("filter has %d segments, want 10: %s", len(parts), filter)
	}

	if !strings.HasPrefix(parts[0], "[0:v]trim=start=3:duration=2,setpts=PTS-STARTPTS,scale=320:-2[v0]") {
		t.Errorf("unexpected first segment: %s", parts[0])
	}

	last := parts[len(parts)-1]
	if !strings.HasSuffix(last, "concat=n=9:v=1:a=0[outv]") {
		t.Errorf("unexpected concat segment: %s", last)
	}
	for i := 0; i < 9; i++ {
		if !strings.Contains(last, fmt.Sprintf("[v%d]", i)) {
			t.Errorf("concat segment missing input [v%d]: %s", i, last)
		}
	}
}

func TestMontageFilterShortVideo(t *testing.T) {
	filter := montageFilter(3)

	if !strings.Contains(filter, "concat=n=3:v=1:a=0[outv]") {
		t.Errorf("short video filter does not use 3-clip fallback: %s", filter)
	}
	if !strings.Contains(filter, "duration=1,") {
		t.Errorf("short video filter does not use 1s clips: %s", filter)
	}
}
