// Package web exposes the evaluation pipeline over HTTP.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/photoid/internal/pipeline"
	"github.com/kozaktomas/photoid/internal/segment"
	"github.com/kozaktomas/photoid/internal/web/handlers"
	"github.com/kozaktomas/photoid/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	pipeline   *pipeline.Pipeline
	store      handlers.Store
	segment    *segment.Client
	log        *logrus.Logger
	router     *chi.Mux
	httpServer *http.Server
}

// NewServer creates a new web server. store and seg may be nil; the
// matching endpoints degrade instead of failing.
func NewServer(pl *pipeline.Pipeline, store handlers.Store, seg *segment.Client, host string, port int) *Server {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	r := chi.NewRouter()

	s := &Server{
		pipeline: pl,
		store:    store,
		segment:  seg,
		log:      log,
		router:   r,
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(2 * time.Minute))
	r.Use(middleware.CORS())

	// Set up routes
	s.setupRoutes()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // uploads plus full-size rendering
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("starting web server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down web server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
