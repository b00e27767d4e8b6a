package handlers

import (
	"time"

	"video-gallery/internal/library"
	"video-gallery/internal/media"
	"video-gallery/internal/metadata"
	"video-gallery/internal/startup"
	"video-gallery/internal/transcoder"
)

type Handlers struct {
	scanner    *library.Scanner
	resolver   *transcoder.Resolver
	transcoder *transcoder.Transcoder
	thumbnails *media.Queue
	previews   *media.Queue
	cache      *metadata.Cache
	thumbDir   string
	startTime  time.Time
}

func New(scanner *library.Scanner, resolver *transcoder.Resolver, trans *transcoder.Transcoder,
	thumbnails, previews *media.Queue, cache *metadata.Cache, config *startup.Config) *Handlers {
	return &Handlers{
		scanner:    scanner,
		resolver:   resolver,
		transcoder: trans,
		thumbnails: thumbnails,
		previews:   previews,
		cache:      cache,
		thumbDir:   config.ThumbnailDir,
		startTime:  time.Now(),
	}
}
