package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-gallery/internal/handlers"
	"video-gallery/internal/library"
	"video-gallery/internal/logging"
	"video-gallery/internal/media"
	"video-gallery/internal/metadata"
	"video-gallery/internal/metrics"
	"video-gallery/internal/middleware"
	"video-gallery/internal/startup"
	"video-gallery/internal/transcoder"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	startup.LogToolCheck()

	// Load the metadata cache snapshot
	cacheStart := time.Now()
	cache := metadata.NewCache(config.MetadataCachePath, metadata.Probe)
	startup.LogCacheInit(cache.Len(), time.Since(cacheStart))

	// Start the serial generation queues
	thumbnails := media.NewQueue("thumbnail", media.GenerateThumbnail)
	previews := media.NewQueue("preview", media.GeneratePreview)
	thumbnails.Start()
	previews.Start()
	startup.LogQueuesStarted()

	// Streaming components
	trans := transcoder.New()
	resolver := transcoder.NewResolver(config.VideoDir, config.MP4Dir)

	// Library scanner
	scanner := library.NewScanner(config.VideoDir, config.ThumbnailDir, cache, thumbnails, previews)

	// Initialize handlers
	h := handlers.New(scanner, resolver, trans, thumbnails, previews, cache, config)

	// Setup router
	router := setupRouter(h, config)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	if config.MetricsEnabled {
		metrics.InitializeMetrics()
	}

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	// Apply compression middleware
	compressionConfig := middleware.DefaultCompressionConfig()
	handler := middleware.Compression(compressionConfig)(loggedHandler)

	// Apply metrics middleware last so it observes the full chain
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	// WriteTimeout stays zero: live transcodes and large originals can
	// legitimately stream for hours.
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, thumbnails, previews, trans)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/videos", h.ListVideos).Methods("GET")
	api.HandleFunc("/stream", h.Stream).Methods("GET")
	api.HandleFunc("/thumbnails/{videoName:.+}", h.UploadThumbnail).Methods("POST")

	if config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// Static assets: originals, generated thumbnails and previews, and
	// the frontend.
	r.PathPrefix("/videos/").Handler(
		http.StripPrefix("/videos/", http.FileServer(http.Dir(config.VideoDir))))
	r.PathPrefix("/thumbnails/").Handler(
		http.StripPrefix("/thumbnails/", http.FileServer(http.Dir(config.ThumbnailDir))))
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	return r
}

func handleShutdown(srv *http.Server, thumbnails, previews *media.Queue, trans *transcoder.Transcoder) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping generation queues")
	thumbnails.Stop()
	previews.Stop()
	startup.LogShutdownStepComplete("Generation queues stopped")

	startup.LogShutdownStep("Cleaning up transcoder")
	trans.Cleanup()
	startup.LogShutdownStepComplete("Transcoder cleanup complete")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
