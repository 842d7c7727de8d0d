// Package app wires configuration, the catalog, storage and the deck
// service together for the command line binaries.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/config"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/deckservice"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/metrics"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/catalog"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage"
)

// Options adjust what New opens.
type Options struct {
	// NoStorage skips the database. Card lookups, alternatives and
	// snapshots are then unavailable.
	NoStorage bool
	// DatabasePath overrides the configured database path.
	DatabasePath string
}

// App owns the long-lived collaborators of a process.
type App struct {
	Config  *config.Config
	Service *deckservice.Service
	Storage *storage.Service
	Catalog *catalog.Store

	logger    *zap.Logger
	stopWatch context.CancelFunc
	watchDone chan struct{}
}

// New builds an App from cfg. The caller must Close it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{Config: cfg, logger: logger}

	store := catalog.NewStore(nil)
	if cfg.Catalog.File != "" {
		if err := store.Reload(cfg.Catalog.File); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		logger.Info("catalog loaded", zap.String("path", cfg.Catalog.File))
	}
	a.Catalog = store

	if !opts.NoStorage {
		path := opts.DatabasePath
		if path == "" {
			var err error
			if path, err = cfg.DatabasePath(); err != nil {
				return nil, err
			}
		}
		dbConfig := storage.DefaultConfig(path)
		dbConfig.AutoMigrate = cfg.Database.AutoMigrate
		db, err := storage.Open(dbConfig)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.Storage = storage.NewService(db)
		logger.Debug("database opened", zap.String("path", path))
	}

	a.Service = deckservice.New(deckservice.Dependencies{
		Catalog: store,
		Storage: a.Storage,
		Metrics: metrics.NewAnalysisMetrics(),
		Logger:  logger.Named("deck"),
		Optimizer: deckservice.OptimizerDefaults{
			MaxChanges:   cfg.Optimizer.MaxChanges,
			PriorityMode: cfg.Optimizer.PriorityMode,
			Prefetch:     cfg.Optimizer.Prefetch,
		},
	})

	if cfg.Catalog.Watch && cfg.Catalog.File != "" {
		a.watch(ctx)
	}
	return a, nil
}

func (a *App) watch(ctx context.Context) {
	ctx, a.stopWatch = context.WithCancel(ctx)
	a.watchDone = make(chan struct{})
	go func() {
		defer close(a.watchDone)
		if err := a.Catalog.Watch(ctx, a.Config.Catalog.File, a.logger.Named("catalog")); err != nil {
			a.logger.Warn("catalog watch stopped", zap.Error(err))
		}
	}()
}

// Logger returns the process logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Close stops the catalog watcher and closes the database.
func (a *App) Close() error {
	var errs []error
	if a.stopWatch != nil {
		a.stopWatch()
		<-a.watchDone
		a.stopWatch = nil
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
		a.Storage = nil
	}
	return errors.Join(errs...)
}
