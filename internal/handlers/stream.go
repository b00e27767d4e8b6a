package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"video-gallery/internal/logging"
	"video-gallery/internal/transcoder"
)

// Stream serves one video according to the resolved delivery strategy.
//
// Query parameters:
//
//	file      library-relative path of the video (required)
//	type      "original" serves the source file untouched
//	download  "true" forces an attachment disposition
func (h *Handlers) Stream(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		writeJSONError(w, "file parameter is required", http.StatusBadRequest)
		return
	}

	flags := transcoder.Flags{
		Download: r.URL.Query().Get("download") == "true",
		Original: r.URL.Query().Get("type") == "original",
	}

	decision, err := h.resolver.Resolve(file, flags)
	if err != nil {
		switch {
		case errors.Is(err, transcoder.ErrAccessDenied):
			logging.Warn("Rejected stream request for %q: %v", file, err)
			writeJSONError(w, "Access denied", http.StatusForbidden)
		case errors.Is(err, transcoder.ErrNotFound):
			writeJSONError(w, "Video not found", http.StatusNotFound)
		default:
			logging.Error("Error resolving stream for %q: %v", file, err)
			writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	if decision.DownloadName != "" {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", decision.DownloadName))
	}

	switch decision.Kind {
	case transcoder.ServeOriginal, transcoder.ServePreRendered:
		// http.ServeFile handles range requests and content type, which
		// matters for seeking in large originals.
		http.ServeFile(w, r, decision.Path)

	case transcoder.TranscodeOnTheFly:
		w.Header().Set("Content-Type", "video/mp4")
		if err := h.transcoder.Stream(r.Context(), decision.Path, w); err != nil {
			// Headers are already gone; all we can do is log.
			logging.Error("Transcode failed for %s: %v", file, err)
		}
	}
}
