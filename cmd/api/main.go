package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"superlists/internal/shared/config"
	"superlists/internal/shared/logging"
	"superlists/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatal("application error", "err", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		}, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(shutdownCtx); err != nil {
				logger.Error("error shutting down telemetry", "err", err)
			}
		}()
	}

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	handler := SetupRoutes(deps, cfg, logger)
	srv, redirectSrv, errc := StartServers(NewServerConfigFromConfig(handler, cfg), logger)

	select {
	case <-ctx.Done():
	case err := <-errc:
		GracefulShutdown(srv, redirectSrv, 30*time.Second, logger)
		return err
	}

	GracefulShutdown(srv, redirectSrv, 30*time.Second, logger)
	return nil
}
