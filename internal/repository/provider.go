package repository

import (
	"context"
	"fmt"

	"majestic-dominion/internal/config"
	"majestic-dominion/internal/database"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// NewDocumentRepository picks the store backend from the config. The SQLite
// handle is owned here and closed when the app stops.
func NewDocumentRepository(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (DocumentRepository, error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		logger.Info().Str("path", cfg.DataFile).Msg("using file document store")
		return NewFileDocumentRepository(cfg.DataFile, logger), nil
	case config.BackendSQLite:
		sqlDB, err := database.New(cfg.DBPath, logger)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				if err := sqlDB.Close(); err != nil {
					logger.Warn().Err(err).Msg("error closing database connection")
				}
				return nil
			},
		})
		return NewSQLiteDocumentRepository(sqlDB, logger), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

var Module = fx.Provide(NewDocumentRepository)
