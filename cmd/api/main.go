package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/stockledger/docs/swagger"
	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/pkg/config"
	"github.com/ghuser/stockledger/pkg/httpx"
	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/telemetry"
	catalogApi "github.com/ghuser/stockledger/services/catalog/application/api"
	identityApi "github.com/ghuser/stockledger/services/identity/application/api"
	ledgerApi "github.com/ghuser/stockledger/services/ledger/application/api"
	reportApi "github.com/ghuser/stockledger/services/report/application/api"
	systemApi "github.com/ghuser/stockledger/services/system/application/api"
	systemSvcs "github.com/ghuser/stockledger/services/system/application/services"
)

// @title					Stockledger API
// @version				1.0
// @description			Inventory and point-of-sale ledger: catalog, sales, reports and backups.
// @contact.name			API Support
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api
// @schemes				http https
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

	// Telemetry: OTel tracing + metrics
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prov, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer prov.Shutdown(context.Background()) //nolint:errcheck

	// Crash reporting: Sentry (optional, log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	a, err := app.Open(ctx, cfg, log, app.Options{
		Forwarder: cfg.StoreBackend == config.BackendPostgres,
		Sessions:  true,
	})
	if err != nil {
		log.Error("failed to open infrastructure", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer a.Close() //nolint:errcheck

	if a.EventBus.Durable() {
		// Subscribers run in cmd/worker; this process only drains the outbox.
		if err := a.EventBus.StartForwarder(ctx); err != nil {
			log.Error("failed to start event forwarder", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	} else {
		topics, err := ledgerApi.Subscribe(ctx, a)
		if err != nil {
			log.Error("failed to register subscribers", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		log.Info("event subscribers registered", "topics", topics, "transport", "in-memory")
	}

	if cfg.SeedDefaults {
		if err := systemSvcs.New(a).Seed.Seed(ctx); err != nil {
			log.Error("failed to seed defaults", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	checks := httpx.HealthChecks{Backend: cfg.StoreBackend, Version: cfg.ServiceVersion, Store: a.Store, EventBus: a.EventBus}
	if a.Redis != nil {
		checks.Redis = a.Redis
	}
	r.Get("/health", httpx.HealthHandler(checks))
	r.Get("/metrics", prov.Metrics.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var routeErr error
	r.Route("/api", func(r chi.Router) {
		routeErr = registerRoutes(r, a)
	})
	if routeErr != nil {
		log.Error("failed to register routes", "error", routeErr)
		os.Exit(1) //nolint:gocritic
	}

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api.
// Everything except the login endpoints requires a session.
func registerRoutes(r chi.Router, a *app.Application) error {
	identityApi.AuthRoutes(r, a)

	var err error
	r.Group(func(r chi.Router) {
		r.Use(identityApi.RequireAuth(a))
		catalogApi.ProductRoutes(r, a)
		if err = ledgerApi.SaleRoutes(r, a); err != nil {
			return
		}
		reportApi.ReportRoutes(r, a)
		identityApi.UserRoutes(r, a)
		systemApi.SystemRoutes(r, a)
	})
	return err
}
