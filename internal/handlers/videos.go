package handlers

import (
	"net/http"

	"video-gallery/internal/logging"
)

// ListVideos returns the full library listing. Missing thumbnails and
// previews are queued for generation as a side effect, so repeatedly
// polling this endpoint converges the asset directories.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.scanner.List(r.Context())
	if err != nil {
		logging.Error("Error reading video directory: %v", err)
		writeJSONError(w, "Failed to read video directory", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, videos)
}
