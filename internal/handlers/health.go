package handlers

import (
	"net/http"
	"runtime"
	"time"

	"video-gallery/internal/startup"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	// Work in progress
	ThumbnailQueueDepth int `json:"thumbnailQueueDepth"`
	PreviewQueueDepth   int `json:"previewQueueDepth"`
	ActiveTranscodes    int `json:"activeTranscodes"`
	CachedMetadata      int `json:"cachedMetadata"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:              "healthy",
		Version:             startup.Version,
		Uptime:              time.Since(h.startTime).Round(time.Second).String(),
		ThumbnailQueueDepth: h.thumbnails.Pending(),
		PreviewQueueDepth:   h.previews.Pending(),
		ActiveTranscodes:    h.transcoder.Active(),
		CachedMetadata:      h.cache.Len(),
		GoVersion:           runtime.Version(),
		NumCPU:              runtime.NumCPU(),
		NumGoroutine:        runtime.NumGoroutine(),
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}
