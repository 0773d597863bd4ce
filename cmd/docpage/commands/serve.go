package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docpage/internal/config"
	"git.home.luguber.info/inful/docpage/internal/metrics"
	"git.home.luguber.info/inful/docpage/internal/server/httpserver"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address (overrides server.addr)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := NewServer(cfg, g.logger())
	if err != nil {
		return err
	}
	return RunServer(ctx, srv, g.logger())
}

// NewServer wires the configured source, metrics and HTTP server.
func NewServer(cfg *config.Config, logger *slog.Logger) (*httpserver.Server, error) {
	var (
		recorder metrics.Recorder
		handler  http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(reg)
		handler = metrics.HTTPHandler(reg)
	}

	svc, name, err := NewService(cfg, recorder, logger)
	if err != nil {
		return nil, err
	}
	return httpserver.New(cfg, svc, httpserver.Options{
		SourceName:     name,
		MetricsHandler: handler,
		Logger:         logger,
	}), nil
}

// RunServer starts srv and blocks until ctx is cancelled, then shuts it down.
func RunServer(ctx context.Context, srv *httpserver.Server, logger *slog.Logger) error {
	if err := srv.Start(ctx); err != nil {
		return err
	}
	logger.Info("Serving page bundles", slog.String("addr", srv.Addr()))

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping server...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return nil
}
