package logging

import (
	"bytes"
	"log"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected LogLevel
	}{
		{"Debug", "debug", LevelDebug},
		{"Info", "info", LevelInfo},
		{"Warn", "warn", LevelWarn},
		{"Warning alias", "warning", LevelWarn},
		{"Error", "error", LevelError},
		{"Case insensitive", "DEBUG", LevelDebug},
		{"Empty defaults to info", "", LevelInfo},
		{"Garbage defaults to info", "loud", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.value); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(42), "unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestSuccessTag(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	Success("generated preview for %s", "clip.mp4")

	if got := buf.String(); !bytes.Contains([]byte(got), []byte("[SUCCESS] generated preview for clip.mp4")) {
		t.Errorf("Success() output = %q, want SUCCESS tag", got)
	}
}
