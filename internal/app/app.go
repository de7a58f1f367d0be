package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jellyjae/cliftonstrengths/internal/clients/dailycache"
	"github.com/jellyjae/cliftonstrengths/internal/data/db"
	"github.com/jellyjae/cliftonstrengths/internal/data/repos"
	apphttp "github.com/jellyjae/cliftonstrengths/internal/http"
	"github.com/jellyjae/cliftonstrengths/internal/observability"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
	"github.com/jellyjae/cliftonstrengths/internal/platform/shutdown"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    repos.Set
	Services Services
	Metrics  *observability.Metrics
	Cache    dailycache.Cache
	Server   *apphttp.Server

	otelShutdown func(context.Context) error
}

// New builds the full API process: store, migrations, cache, services and router.
func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	core, err := openCore(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
		if sqlDB, err := core.db.DB(); err == nil {
			metrics.RegisterDBStats(sqlDB, "strengths")
		}
	}
	shutdown := observability.InitOTel(ctx, log, cfg.Otel)

	cache := openCache(cfg, log)
	serviceset, err := wireServices(core.db, log, cfg, core.repos, cache, metrics)
	if err != nil {
		_ = cache.Close()
		_ = db.Close(core.db)
		log.Sync()
		return nil, err
	}
	if cfg.SeedOnStartup {
		if _, err := serviceset.Theme.Seed(ctx); err != nil {
			log.Warn("catalog seed failed (continuing)", "error", err)
		}
	}

	routerCfg := wireRouter(cfg, log, metrics, serviceset, func(ctx context.Context) error { return db.Ping(ctx, core.db) })
	return &App{
		Log:          log,
		DB:           core.db,
		Cfg:          cfg,
		Repos:        core.repos,
		Services:     serviceset,
		Metrics:      metrics,
		Cache:        cache,
		Server:       apphttp.NewServer(routerCfg),
		otelShutdown: shutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("HTTP server listening", "addr", addr, "store", a.Cfg.Store.Driver)
	return a.Server.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if a.otelShutdown != nil {
		ctx, cancel := shutdown.Drain()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.DB != nil {
		_ = db.Close(a.DB)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

type coreDeps struct {
	db    *gorm.DB
	repos repos.Set
}

// openCore connects and migrates the store. It is shared with the CLI.
func openCore(ctx context.Context, cfg Config, log *logger.Logger) (coreDeps, error) {
	store, err := db.Open(cfg.Store, log)
	if err != nil {
		return coreDeps{}, fmt.Errorf("init %s store: %w", cfg.Store.Driver, err)
	}
	gdb := store.DB()
	if err := db.Ping(ctx, gdb); err != nil {
		_ = db.Close(gdb)
		return coreDeps{}, fmt.Errorf("ping %s store: %w", store.Driver(), err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		_ = db.Close(gdb)
		return coreDeps{}, fmt.Errorf("%s automigrate: %w", store.Driver(), err)
	}
	return coreDeps{db: gdb, repos: repos.NewSet(gdb, log)}, nil
}

// openCache returns the Redis day cache when configured, else a no-op.
// A Redis that cannot be reached is logged and skipped.
func openCache(cfg Config, log *logger.Logger) dailycache.Cache {
	if cfg.Redis.Addr == "" {
		return dailycache.NewNoop()
	}
	c, err := dailycache.NewRedisCache(cfg.Redis, log)
	if err != nil {
		log.Warn("redis day cache unavailable, running without it", "error", err)
		return dailycache.NewNoop()
	}
	return c
}
