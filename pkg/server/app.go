package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StockAccess/pkg/config"
	xhttp "StockAccess/pkg/http"
	applogger "StockAccess/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
	signals    chan os.Signal
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, httpServer *xhttp.Server) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{cfg: cfg, l: l, httpServer: httpServer, signals: make(chan os.Signal, 1)}
}

// Run starts the HTTP server and blocks until interrupted or ctx is done.
func (a *App) Run(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("stockaccess started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
	)

	signal.Notify(a.signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(a.signals)
	select {
	case <-a.signals:
		a.l.Info("shutdown signal received")
	case <-ctx.Done():
		a.l.Info("context done")
	}
	return a.shutdown()
}

// shutdown gracefully stops the HTTP server. Store clients are released by
// the injector cleanup.
func (a *App) shutdown() error {
	a.l.Info("shutting down...")
	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.l.Info("shutdown complete")
	return nil
}
