// Package server exposes the categorizer over HTTP: upload a statement,
// preview the categorized rows, or download them as a workbook.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/categorizer/internal/categorize"
)

// Options configure the HTTP surface.
type Options struct {
	MaxUploadBytes int64
	PreviewRows    int
	FileName       string // download name for categorized workbooks
}

// Server serves the categorizer API.
type Server struct {
	svc  *categorize.Service
	opts Options
	log  zerolog.Logger
}

// New creates a Server around svc.
func New(svc *categorize.Service, opts Options, log zerolog.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = 5
	}
	if opts.FileName == "" {
		opts.FileName = "Categorized_Statement.xlsx"
	}
	return &Server{svc: svc, opts: opts, log: log}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rules", s.listRules).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/preview", s.preview).Methods(http.MethodPost)
	api.HandleFunc("/categorize", s.download).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return Recovery(s.log)(
		RequestID(s.log)(
			Logger(s.log)(r),
		),
	)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("Starting API server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.log.Info().Msg("Server exited")
	return nil
}
