package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	appLogger "github.com/FACorreiaa/go-travel-planner/app/logger"
	"github.com/FACorreiaa/go-travel-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-planner/app/tracer"
	"github.com/FACorreiaa/go-travel-planner/internal/container"
)

const shutdownTimeout = 10 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the itinerary HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.HTTPPort = servePort
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		shutdownTelemetry, metricsHandler, err := tracer.InitTracingAndMetrics(cfg.Observability.ServiceName)
		if err != nil {
			return fmt.Errorf("initializing telemetry: %w", err)
		}
		metrics.InitAppMetrics()

		c := container.NewContainer(ctx, &cfg, logger, metrics.Get())

		timeout := cfg.Server.Timeout
		if timeout <= 0 {
			timeout = 90 * time.Second
		}

		router := chi.NewMux()
		router.Use(middleware.RequestID)
		router.Use(middleware.RealIP)
		router.Use(appLogger.StructuredLogger(logger))
		router.Use(middleware.Recoverer)
		router.Use(middleware.StripSlashes)
		router.Use(middleware.Timeout(timeout))
		router.Use(middleware.Compress(5, "application/json"))
		router.Mount("/", c.Router(metricsHandler))

		serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
		srv := &http.Server{
			Addr:         serverAddress,
			Handler:      otelhttp.NewHandler(router, "travel-planner"),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: timeout + 5*time.Second, // model calls are slow
			IdleTimeout:  120 * time.Second,
			ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
		}

		go func() {
			logger.Info("Starting HTTP server", slog.String("address", serverAddress))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
				cancel()
			}
		}()

		<-ctx.Done()
		logger.Info("Shutdown signal received, starting graceful shutdown...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
		} else {
			logger.Info("HTTP server gracefully stopped")
		}
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Error("Telemetry shutdown failed", slog.Any("error", err))
		}
		logger.Info("Application shut down complete.")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "8000", "Port to listen on (overrides server.HTTPPort)")
	rootCmd.AddCommand(serveCmd)
}
