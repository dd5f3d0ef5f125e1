package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"EliteScan/internal/usecase"
	"EliteScan/pkg/config"
	xhttp "EliteScan/pkg/http"
	applogger "EliteScan/pkg/logger"
)

// App encapsulates the HTTP application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	svc        *usecase.ScanService
	httpServer *xhttp.Server
}

// New creates the App and its HTTP server. Routes come from h; metrics are served from reg.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	reg *prometheus.Registry,
	h xhttp.Handler,
	svc *usecase.ScanService,
) *App {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORSOrigins...),
		xhttp.WithLogger(l),
		xhttp.WithMetrics("", nil),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, reg))
	}
	return &App{
		cfg:        cfg,
		l:          l,
		svc:        svc,
		httpServer: xhttp.NewServer(xhttp.Handlers{xhttp.NewHealth(cfg.Environment), h}, opts...),
	}
}

// Server exposes the HTTP server, mainly for tests.
func (a *App) Server() *xhttp.Server { return a.httpServer }

// Run starts the HTTP server and blocks until ctx ends or an interrupt arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("scanner api started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("provider", a.cfg.Data.Provider),
		applogger.String("sink", a.cfg.Sink.Type),
	)

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown cancels running scans, then drains HTTP connections.
func (a *App) shutdown() error {
	a.svc.Shutdown()

	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.l.Info("shutdown complete")
	return nil
}
