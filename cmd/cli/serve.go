package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/limaJavier/timetabling-ga/internal/config"
	"github.com/limaJavier/timetabling-ga/internal/server"
	"github.com/limaJavier/timetabling-ga/internal/store"
	"github.com/limaJavier/timetabling-ga/pkg/scheduler"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Serve exposes generation, evaluation and run history over HTTP.
It is configured through TIMETABLING_* environment variables (TIMETABLING_SERVER_PORT,
TIMETABLING_STORE_PATH, TIMETABLING_SCHEDULER_CONFIG_FILE, ...).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("cannot load configuration: %w", err)
			}
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
			slog.SetDefault(logger)

			defaults := scheduler.DefaultConfig()
			if cfg.Scheduler.ConfigFile != "" {
				if defaults, err = scheduler.LoadConfig(cfg.Scheduler.ConfigFile); err != nil {
					return err
				}
			}

			runs, err := store.Open(cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("cannot open run store: %w", err)
			}
			defer runs.Close()

			handler, err := server.NewHandler(cfg, runs, scheduler.New(scheduler.WithLogger(logger)), defaults)
			if err != nil {
				return err
			}
			handler.RegisterRoutes()

			srv := &http.Server{
				Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
				Handler:      handler.Mux,
				IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
				ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("starting server", "port", cfg.Server.Port, "store", cfg.Store.Path)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case err := <-serveErr:
				return err
			case <-ctx.Done():
			}
			logger.Info("shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown failed", "error", err)
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}
}
