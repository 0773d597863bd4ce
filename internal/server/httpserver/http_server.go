// Package httpserver wires the docpage handlers, middleware and listener into
// a single HTTP server.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/docpage/internal/config"
	derrors "git.home.luguber.info/inful/docpage/internal/foundation/errors"
	"git.home.luguber.info/inful/docpage/internal/logfields"
	handlers "git.home.luguber.info/inful/docpage/internal/server/handlers"
	smw "git.home.luguber.info/inful/docpage/internal/server/middleware"
)

const idleTimeout = 120 * time.Second

// Options configures additional server wiring.
type Options struct {
	// SourceName is reported by /health.
	SourceName string
	// MetricsHandler is mounted at cfg.Metrics.Path when metrics are enabled.
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// Server serves the bundle API.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	handler http.Handler

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New constructs the server and its routes. Nothing is bound until Start.
func New(cfg *config.Config, resolver handlers.Resolver, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, logger: logger}

	pages := handlers.NewPageHandlers(resolver, logger)
	monitoring := handlers.NewMonitoringHandlers(opts.SourceName, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/pages/{path...}", pages.HandlePage)
	mux.HandleFunc("/api/bundle", pages.HandleBundle)
	mux.HandleFunc("/api/inspect/{path...}", pages.HandleInspect)
	mux.HandleFunc("/health", monitoring.HandleHealthCheck)
	if cfg.Metrics.Enabled && opts.MetricsHandler != nil {
		mux.Handle(cfg.Metrics.Path, opts.MetricsHandler)
	}

	chain := smw.Chain(logger, derrors.NewHTTPErrorAdapter(logger), smw.Options{Gzip: cfg.Server.Gzip})
	s.handler = chain(mux)
	return s
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

// Start binds the configured address and serves in the background. Binding
// happens before Start returns so address conflicts fail fast.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return errors.New("http server already started")
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("http startup failed: listen %s: %w", s.cfg.Server.Addr, err)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       idleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.startServerWithListener(s.server, ln)
	s.logger.Info("HTTP server started", logfields.URL("http://"+ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// startServerWithListener serves on a pre-bound listener in a goroutine.
func (s *Server) startServerWithListener(srv *http.Server, ln net.Listener) {
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", logfields.Error(err))
		}
	}()
}
