// Package server is the densitywalk HTTP host.
//
// It exposes the same operations as the CLI over plain GET requests:
//
//	GET /healthz                     build information
//	GET /plot.{format}               a rendered density curve (svg, png, pdf, json)
//	GET /density?x=...               density and log density at x
//	GET /sample?n=...&seed=...       i.i.d. draws, recorded under a draw id
//	GET /draws/{id}                  a recorded draw
//	GET /likelihood?n=...            draws scored by joint density and log-likelihood
//	GET /likelihood?draw={id}        a recorded draw, scored
//
// Every endpoint that takes a distribution reads it from the dist query
// parameter and its parameters from p.<name>, for example
// /plot.svg?dist=gamma&p.alpha=2&p.beta=0.5. Plots also take color,
// line_width, grid and any number of mark=<x> parameters; each mark draws a
// rule at x labelled with the density there.
//
// Errors are JSON objects {"code": ..., "message": ...}.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/densitywalk/pkg/pipeline"
)

const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 30 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server routes HTTP requests to a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New builds a server around runner. A nil logger means the runner's.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(s.instrument)

		r.Get("/healthz", s.handleHealth)
		r.Get("/plot.{format}", s.handlePlot)
		r.Get("/density", s.handleDensity)
		r.Get("/sample", s.handleSample)
		r.Get("/draws/{id}", s.handleDraw)
		r.Get("/likelihood", s.handleLikelihood)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" is not allowed")
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. A clean shutdown returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
