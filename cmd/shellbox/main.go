package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shellbox/internal/api"
	"shellbox/internal/auth"
	"shellbox/internal/backend"
	"shellbox/internal/config"
	"shellbox/internal/image"
	"shellbox/internal/reaper"
	"shellbox/internal/registry"
	"shellbox/internal/session"
)

func main() {
	cfgPath := flag.String("config", "", "path to shellbox.yaml")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	users := auth.NewTable(cfg.Users)
	if !users.Enabled() {
		logger.Warn("no users configured — running in open access mode")
	}

	dc, err := backend.NewDocker()
	if err != nil {
		logger.Error("docker client", "error", err)
		os.Exit(1)
	}
	defer dc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// An unreachable daemon is not fatal: sessions fall back to mock mode so
	// the product stays usable.
	backendState := "connected"
	if err := dc.Ping(ctx); err != nil {
		logger.Warn("docker unreachable — sessions will run in mock mode", "error", err)
		backendState = "degraded"
	} else {
		logger.Info("docker connection OK")
	}

	reg := registry.New(cfg.MaxSessions)
	mock := backend.NewMock(time.Duration(cfg.Defaults.MockDelayMs) * time.Millisecond)
	images := image.NewDockerProvider(dc.Client(), logger)

	mgr := session.NewManager(cfg, reg, dc, mock, images, logger)

	idleTimeout := time.Duration(cfg.IdleTimeoutSeconds) * time.Second
	reapInterval := time.Duration(cfg.ReapIntervalSecs) * time.Second
	rpr := reaper.New(reg, mgr, idleTimeout, reapInterval, logger)
	go rpr.Run(ctx)

	srv := api.NewServer(cfg, mgr, users, backendState, logger)

	httpServer := &http.Server{
		Addr:         cfg.Listen,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // exec can be long
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.Listen, "backend", backendState)
	fmt.Fprintf(os.Stderr, "\n  shellbox daemon ready at http://%s\n\n", cfg.Listen)

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
