// Package server provides the read-only HTTP API over the gag catalog.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/cutaway/internal/config"
	"github.com/hyperjump/cutaway/internal/gagdb"
	"github.com/hyperjump/cutaway/internal/metrics"
)

// Server is the HTTP server for the cutaway API.
type Server struct {
	live    *gagdb.Live
	config  *config.Config
	metrics *metrics.Metrics
	logger  *zap.Logger
	router  chi.Router
	server  *http.Server
}

// NewServer creates a server over live. m may be nil, in which case /metrics is not
// mounted and nothing is recorded.
func NewServer(live *gagdb.Live, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		live:    live,
		config:  cfg,
		metrics: m,
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/gags", s.handleListGags)
		r.Get("/gags/{title}", s.handleGetGag)
		r.Get("/absurdist", s.handleAbsurdist)
		r.Get("/validate", s.handleValidate)
		r.Get("/analysis", s.handleAnalysis)
		r.Get("/missing", s.handleMissing)
		r.Get("/status", s.handleStatus)
		r.Post("/reload", s.handleReload)
	})
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
