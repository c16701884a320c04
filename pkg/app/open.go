package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/pkg/cache"
	"github.com/ghuser/stockledger/pkg/config"
	"github.com/ghuser/stockledger/pkg/database"
	"github.com/ghuser/stockledger/pkg/events"
	"github.com/ghuser/stockledger/pkg/ids"
	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
	"github.com/ghuser/stockledger/pkg/store/filestore"
	"github.com/ghuser/stockledger/pkg/store/pgstore"
	"github.com/ghuser/stockledger/pkg/store/redisstore"
)

// Options tune Open for the calling binary.
type Options struct {
	// Forwarder routes SQL events through the durable forwarder queue. Set by
	// the API, which owns the forwarder daemon.
	Forwarder bool
	// Sessions builds the HTTP session store.
	Sessions bool
}

// Open connects the infrastructure selected by cfg:
//   - Redis when REDIS_URL is set or the redis backend is selected
//   - PostgreSQL when the postgres backend is selected
//   - the document store for STORE_BACKEND
//   - the SQL event bus on PostgreSQL, the in-memory bus otherwise
//
// On error everything opened so far is closed again.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*Application, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a := &Application{
		Config:   cfg,
		Logger:   log,
		IDs:      ids.NewGenerator(),
		Location: loc,
		Now:      time.Now,
	}
	if err := a.open(ctx, opts); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Application) open(ctx context.Context, opts Options) error {
	cfg, log := a.Config, a.Logger

	if cfg.RedisEnabled() {
		rc, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, rc.Close)
		a.Redis = rc
		a.SaleCache = cache.NewSaleCache(rc)
		log.Info("redis connected")
	}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.Db = db
		a.Store = pgstore.New(db)
		log.Info("database pool connected")
	case config.BackendRedis:
		a.Store = redisstore.New(a.Redis.Client(), a.Redis.Prefix())
	case config.BackendMemory:
		a.Store = store.NewMemory()
	case config.BackendFile, "":
		fs, err := filestore.Open(cfg.DataFile, log)
		if err != nil {
			return fmt.Errorf("open data file: %w", err)
		}
		a.Store = fs
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	a.closers = append(a.closers, a.Store.Close)
	log.Info("document store ready", "backend", cfg.StoreBackend)

	if a.Db != nil {
		newBus := events.NewEventBus
		if opts.Forwarder {
			newBus = events.NewEventBusWithForwarder
		}
		bus, err := newBus(a.Db.DB(), cfg, log)
		if err != nil {
			return fmt.Errorf("setup event bus: %w", err)
		}
		a.EventBus = bus
	} else {
		a.EventBus = events.NewInMemoryEventBus(log)
	}
	a.closers = append(a.closers, a.EventBus.Close)

	if opts.Sessions {
		secure := cfg.Environment == config.EnvProduction
		if a.Redis != nil {
			a.SessionStore = auth.NewSessionStore(a.Redis.Client(), a.Redis.Prefix(),
				[]byte(cfg.SessionAuthKey), []byte(cfg.SessionEncryptionKey), secure)
			log.Info("session store initialized", "backend", "redis")
		} else {
			a.SessionStore = auth.NewCookieSessionStore(
				[]byte(cfg.SessionAuthKey), []byte(cfg.SessionEncryptionKey), secure)
			log.Info("session store initialized", "backend", "cookie")
		}
	}
	return nil
}
