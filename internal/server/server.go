// Package server exposes the layout pipeline over HTTP.
//
// Every endpoint takes the dialog document as the request body. Layout
// options that would be flags on the command line are query parameters:
//
//	POST /v1/layout?trigger=0&smart=true        flowchart JSON
//	POST /v1/render/{format}?style=dark&select=  rendered artifact
//	POST /v1/navigate                            focus after a command
//	GET  /healthz
//
// The server shares one [pipeline.Runner] across requests, so boundary
// estimates and rendered artifacts are reused between previews of the same
// document.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/adaptiveflow/pkg/config"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/cursor"
	"github.com/matzehuels/adaptiveflow/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// context is cancelled.
const shutdownTimeout = 5 * time.Second

// Server is the preview API.
type Server struct {
	router  chi.Router
	runner  *pipeline.Runner
	cfg     config.Config
	tracker *cursor.Tracker
	logger  *log.Logger
}

// New creates a server. The runner is shared by all requests and is not
// closed by the server.
func New(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		cfg:     cfg,
		tracker: cursor.New(cfg.Navigation),
		logger:  logger,
	}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(limitBody(s.cfg.Server.MaxBodyBytes))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
		r.Post("/navigate", s.handleNavigate)
	})
	s.router = r
}

// ListenAndServe serves on the configured address until ctx is cancelled.
// ready, when non-nil, receives the bound address once the listener is up.
func (s *Server) ListenAndServe(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Addr, err)
	}
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
	if ready != nil {
		ready(ln.Addr().String())
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
