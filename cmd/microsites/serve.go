package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"microsites/internal/server"
	"microsites/internal/sites"
	"microsites/internal/tool"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd runs the HTTP server until SIGINT or SIGTERM.
type ServeCmd struct {
	Host string `help:"Override server.host." env:"HOST"`
	Port int    `help:"Override server.port." env:"PORT"`
}

func (s *ServeCmd) Run(a *app) error {
	cfg := a.cfg.Server
	if s.Host != "" {
		cfg.Host = s.Host
	}
	if s.Port != 0 {
		cfg.Port = s.Port
	}
	logger := a.logs.Logger("server")

	reg := tool.NewRegistry()
	if err := sites.Register(reg, a.cfg.Sites.Disabled); err != nil {
		return err
	}
	srv := server.New(cfg, reg, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpSrv.Addr, "sites", reg.Names())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
