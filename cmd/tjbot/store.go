package main

import (
	"context"
	"fmt"
	"log/slog"

	"tjbot/config"
	"tjbot/internal/domain"
	"tjbot/internal/repository/memory"
	"tjbot/internal/repository/postgres"
	"tjbot/internal/repository/sqlite"
)

// openTagRepository returns the store selected by DATABASE_DRIVER and a func releasing it.
func openTagRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.TagRepository, func() error, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory tag store, tags are lost on restart")
		return memory.NewTagRepository(), func() error { return nil }, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewTagRepository(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown DATABASE_DRIVER %q", domain.ErrInvalidInput, cfg.DatabaseDriver)
	}
}
