package app

import (
	"errors"
	"time"

	"github.com/gorilla/sessions"

	"github.com/ghuser/stockledger/pkg/cache"
	"github.com/ghuser/stockledger/pkg/config"
	"github.com/ghuser/stockledger/pkg/database"
	"github.com/ghuser/stockledger/pkg/events"
	"github.com/ghuser/stockledger/pkg/ids"
	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to every service's route and service constructors during initialization.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "sale committed", "sale_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config   *config.Config
	Logger   logger.Logger
	Store    store.Store
	Db       *database.Database // nil unless STORE_BACKEND=postgres
	EventBus *events.EventBus
	Redis    *cache.RedisClient // nil when Redis is disabled
	// SaleCache is the Redis read model for sales; nil when Redis is disabled.
	SaleCache    *cache.SaleCache
	SessionStore sessions.Store // nil outside the API process
	IDs          *ids.Generator
	// Location is the calendar used to group sales by day.
	Location *time.Location
	// Now is the clock used for sale dates and report windows.
	Now func() time.Time

	closers []func() error
}

// Close releases infrastructure in reverse order of acquisition.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewForTest returns an Application on an in-memory store and bus.
func NewForTest(log logger.Logger, now func() time.Time) *Application {
	if now == nil {
		now = time.Now
	}
	bus := events.NewInMemoryEventBus(log)
	return &Application{
		Config:   &config.Config{StoreBackend: config.BackendMemory, ServiceName: "stockledger-test"},
		Logger:   log,
		Store:    store.NewMemory(),
		EventBus: bus,
		IDs:      ids.NewGeneratorWithClock(now),
		Location: time.UTC,
		Now:      now,
		closers:  []func() error{bus.Close},
	}
}
