// Package app provides application-level wiring for the access model:
// it opens the configured snapshot store, restores persisted state (or
// seeds the demo dataset), and constructs the engine.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"rbac-demo/internal/config"
	"rbac-demo/internal/domain"
	"rbac-demo/internal/engine"
	"rbac-demo/internal/snapshot"
)

// App holds the fully-wired application.
type App struct {
	Engine *engine.Engine

	store  domain.SnapshotStore
	logger *slog.Logger
}

// New opens the configured snapshot store, restores its snapshot as the
// engine's initial state, and falls back to seed data when no snapshot
// exists or the stored one cannot be parsed. An unparsable snapshot is a
// logged warning, not a startup failure: in-memory state is the source of
// truth once the process runs.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	snap, err := store.Load(ctx)
	if err != nil {
		logger.Warn("stored snapshot unusable — starting from seed data", "error", err)
		snap = nil
	}
	if snap == nil {
		snap, err = seedSnapshot(cfg, logger)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		logger.Info("initialised access model from seed data",
			"users", len(snap.Users), "roles", len(snap.Roles),
			"privileges", len(snap.Privileges), "groups", len(snap.Groups))
	} else {
		logger.Info("restored access model snapshot",
			"users", len(snap.Users), "roles", len(snap.Roles),
			"privileges", len(snap.Privileges), "groups", len(snap.Groups))
	}

	return &App{
		Engine: engine.New(snap, store, logger),
		store:  store,
		logger: logger,
	}, nil
}

// Close releases the snapshot store.
func (a *App) Close() error {
	return a.store.Close()
}

func openStore(cfg *config.Config) (domain.SnapshotStore, error) {
	switch cfg.SnapshotDriver {
	case config.DriverSQLite:
		store, err := snapshot.NewSQLiteStore(cfg.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite snapshot store: %w", err)
		}
		return store, nil
	case config.DriverFile:
		return snapshot.NewFileStore(cfg.SnapshotPath), nil
	default:
		return nil, fmt.Errorf("unknown snapshot driver %q", cfg.SnapshotDriver)
	}
}
