package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"genreshift/internal/api"
	"genreshift/internal/artifacts"
	"genreshift/internal/config"
	"genreshift/internal/genres"
	"genreshift/internal/ledger"
	"genreshift/internal/logging"
	"genreshift/internal/notifications"
	"genreshift/internal/services"
	"genreshift/internal/transform"
)

// Transformer produces (or reuses) a transformed rendition of an artifact.
type Transformer interface {
	EnsureTransformed(ctx context.Context, artifactID int64, genre string) (*transform.Result, error)
}

// Server exposes the HTTP API for uploads, genre transformations, and
// ledger inspection.
type Server struct {
	bind        string
	cfg         *config.Config
	logger      *slog.Logger
	store       *ledger.Store
	registry    *genres.Registry
	artifacts   *artifacts.Service
	transformer Transformer
	notifier    notifications.Service
	ledgerSvc   *api.LedgerService

	mux      *http.ServeMux
	listener net.Listener
	server   *http.Server
}

// New assembles a server from the shared services. The bind address comes
// from the configuration and may be empty, in which case Start fails.
func New(cfg *config.Config, store *ledger.Store, registry *genres.Registry, artifactSvc *artifacts.Service, transformer Transformer, notifier notifications.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	srv := &Server{
		bind:        strings.TrimSpace(cfg.Paths.APIBind),
		cfg:         cfg,
		logger:      logger,
		store:       store,
		registry:    registry,
		artifacts:   artifactSvc,
		transformer: transformer,
		notifier:    notifier,
		ledgerSvc:   api.NewLedgerService(store),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/genres", srv.handleGenres)
	mux.HandleFunc("/api/upload", srv.handleUpload)
	mux.HandleFunc("/api/uploads", srv.handleUploads)
	mux.HandleFunc("/api/uploads/", srv.handleUploadItem)
	mux.HandleFunc("/api/transform", srv.handleTransform)
	mux.HandleFunc("/api/transform/", srv.handleTransformItem)
	srv.mux = mux

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the route table for use in tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins serving on the configured bind address. The server shuts
// down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("api bind address not configured")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

// Addr reports the listener address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}
