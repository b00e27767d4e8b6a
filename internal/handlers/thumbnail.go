package handlers

import (
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gorilla/mux"

	// Cover uploads commonly arrive as WebP; register its decoder.
	_ "golang.org/x/image/webp"

	"video-gallery/internal/assets"
	"video-gallery/internal/logging"
)

const (
	// maxThumbnailUpload bounds the accepted upload size.
	maxThumbnailUpload = 10 << 20

	// thumbnailWidth matches the width of generated thumbnails so
	// uploaded covers render at the same size in the gallery.
	thumbnailWidth = 320

	thumbnailJPEGQuality = 85
)

type thumbnailResponse struct {
	Success   bool   `json:"success"`
	Thumbnail string `json:"thumbnail"`
}

// UploadThumbnail replaces a video's cover with a user-supplied image.
// The image arrives as the multipart field "thumbnail", is re-encoded
// to JPEG regardless of input format, and lands at the same path the
// generator would have used.
func (h *Handlers) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	videoName := mux.Vars(r)["videoName"]
	if videoName == "" {
		writeJSONError(w, "video name is required", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxThumbnailUpload)
	if err := r.ParseMultipartForm(maxThumbnailUpload); err != nil {
		writeJSONError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("thumbnail")
	if err != nil {
		writeJSONError(w, "thumbnail file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		writeJSONError(w, "unsupported image format", http.StatusBadRequest)
		return
	}

	if img.Bounds().Dx() > thumbnailWidth {
		img = imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	}

	name := assets.ThumbnailName(videoName)
	target, err := assets.SafeJoin(h.thumbDir, name)
	if err != nil {
		logging.Warn("Rejected thumbnail upload for %q: %v", videoName, err)
		writeJSONError(w, "Access denied", http.StatusForbidden)
		return
	}

	out, err := os.Create(target)
	if err != nil {
		logging.Error("Error creating thumbnail file %s: %v", target, err)
		writeJSONError(w, "Failed to save thumbnail", http.StatusInternalServerError)
		return
	}
	defer out.Close()

	if err := imaging.Encode(out, img, imaging.JPEG, imaging.JPEGQuality(thumbnailJPEGQuality)); err != nil {
		logging.Error("Error encoding thumbnail for %s: %v", videoName, err)
		writeJSONError(w, "Failed to save thumbnail", http.StatusInternalServerError)
		return
	}

	logging.Success("Custom thumbnail saved for %s", videoName)

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, thumbnailResponse{
		Success: true,
		Thumbnail: "/thumbnails/" + url.PathEscape(name) +
			"?t=" + strconv.FormatInt(time.Now().UnixMilli(), 10),
	})
}
