// Package server provides HTTP server lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zipari/business-rules/internal/core/api"
	"github.com/zipari/business-rules/internal/core/auth"
	"github.com/zipari/business-rules/internal/core/config"
)

// HTTPServer manages the evaluation API server lifecycle.
type HTTPServer struct {
	server *http.Server
	config *config.EvalAPIConfig
}

// NewHTTPServer creates the HTTP server with routing and auth middleware.
// The health endpoint stays outside the auth group so load balancers
// can probe without credentials.
func NewHTTPServer(cfg *config.EvalAPIConfig, service *api.EvalService, authenticator *auth.Authenticator) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if authenticator == nil {
		return nil, fmt.Errorf("authenticator cannot be nil")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/v1/healthz", service.HandleHealth)

	r.Group(func(r chi.Router) {
		r.Use(authenticator.Middleware())
		r.Post("/v1/evaluate", service.HandleEvaluate)
		r.Get("/v1/schema", service.HandleSchema)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &HTTPServer{server: srv, config: cfg}, nil
}

// Start binds the listener and serves HTTP requests.
// Blocks until Shutdown is called; a clean shutdown returns nil.
func (s *HTTPServer) Start(ctx context.Context) error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server with a 30-second timeout.
// In-flight requests get to finish; stragglers are cut off.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.server.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
