package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/pkg/config"
	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/telemetry"
	ledgerApi "github.com/ghuser/stockledger/services/ledger/application/api"
)

// The worker consumes events the API published to the SQL bus. With any other
// backend the bus is in-memory and the API runs the subscribers itself.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	if cfg.StoreBackend != config.BackendPostgres {
		log.Error("worker requires STORE_BACKEND=postgres", "store", cfg.StoreBackend)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prov, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer prov.Shutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	a, err := app.Open(ctx, cfg, log, app.Options{})
	if err != nil {
		log.Error("failed to open infrastructure", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer a.Close() //nolint:errcheck

	topics, err := ledgerApi.Subscribe(ctx, a)
	if err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	log.Info("event subscribers registered", "topics", topics)

	<-ctx.Done()

	// EventBus.Close() (via a.Close) waits up to 30s for in-flight handlers.
	log.Info("shutting down worker...")
}
