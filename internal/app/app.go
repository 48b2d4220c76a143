package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yungbote/forumcore/internal/data/db"
	"github.com/yungbote/forumcore/internal/observability"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type App struct {
	Log        *logger.Logger
	DB         *db.Service
	Cfg        Config
	Repos      Repos
	Aggregates Aggregates
	Metrics    *observability.Metrics

	shutdownOtel func(context.Context) error
}

// New builds the logger from the environment and wires everything on top of it.
func New(ctx context.Context) (*App, error) {
	log, err := logger.NewWithOptions(loggerOptions())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Loading environment variables...")
	return NewWithConfig(ctx, log, LoadConfig(log))
}

// NewWithConfig connects the database and wires repos and aggregates.
func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	shutdown := observability.InitOTel(ctx, log, cfg.Otel)

	svc, err := db.NewService(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.MigrateOnStart {
		if err := svc.Migrate(ctx); err != nil {
			_ = svc.Close()
			log.Sync()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	reposet := wireRepos(svc.DB(), log)
	aggs := wireAggregates(svc.DB(), log, reposet, metrics)

	return &App{
		Log:          log,
		DB:           svc,
		Cfg:          cfg,
		Repos:        reposet,
		Aggregates:   aggs,
		Metrics:      metrics,
		shutdownOtel: shutdown,
	}, nil
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.shutdownOtel != nil {
		if err := a.shutdownOtel(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && a.Log != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
