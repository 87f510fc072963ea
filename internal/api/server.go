package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"datacatalog/internal/dataset"
	"datacatalog/internal/logger"
	"datacatalog/internal/validation"
	"datacatalog/ports"
)

// multipartMemory is the part of a multipart body kept in memory before spilling to disk
const multipartMemory = 32 << 20

// Options tune the upload transport
type Options struct {
	MaxConcurrent  int64  // analyses allowed to run at once
	MaxFileSize    int64  // advertised by /formats and used to cap request bodies
	UploadDir      string // advertised by /formats
	KeepStagedFile bool   // keep analyze/validate/report uploads on disk
}

// Server is the HTTP transport in front of the file analyzer
type Server struct {
	router   *chi.Mux
	analyzer ports.FileAnalyzer
	storage  dataset.FileStorage
	slots    *semaphore.Weighted
	options  Options
	log      zerolog.Logger
}

// NewServer wires the routes for analyzer, staging uploads through storage
func NewServer(analyzer ports.FileAnalyzer, storage dataset.FileStorage, options Options) *Server {
	if options.MaxConcurrent < 1 {
		options.MaxConcurrent = 1
	}
	if options.MaxFileSize <= 0 {
		options.MaxFileSize = validation.DefaultMaxFileSize
	}

	s := &Server{
		router:   chi.NewRouter(),
		analyzer: analyzer,
		storage:  storage,
		slots:    semaphore.NewWeighted(options.MaxConcurrent),
		options:  options,
		log:      logger.Component("API"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/upload", func(r chi.Router) {
			r.Post("/analyze", s.handleAnalyze)
			r.Post("/validate", s.handleValidate)
			r.Post("/import", s.handleImport)
			r.Post("/report", s.handleReport)
			r.Get("/formats", s.handleFormats)
		})
		r.Post("/fields/classify", s.handleClassify)
		r.Get("/assets/{id}", s.handleGetAsset)
	})
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is canceled, then drains in-flight requests
// for at most shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// acquire waits for an analysis slot, giving up when the request goes away
func (s *Server) acquire(ctx context.Context) bool {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return false
	}
	return true
}

func (s *Server) release() {
	s.slots.Release(1)
}
