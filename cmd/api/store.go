package main

import (
	"errors"
	"fmt"

	"github.com/books-api/cmd/api/book"
	"github.com/books-api/cmd/api/config"
	"github.com/books-api/cmd/api/database"
	"github.com/books-api/cmd/api/inmemory"
	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog"
)

/* Builds the configured book repository. The returned func releases it. */
func openStore(cfg config.Config, log zerolog.Logger) (book.Repository, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		//connect to db:
		dbObject, err := database.ConnectDb(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting with db: %w", err)
		}
		log.Info().Msg("connected to postgres")

		//apply migrations:
		store := database.NewStore(dbObject)
		err = database.MigrationUp(store, cfg.MigrationsPath)
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			log.Info().Str("path", cfg.MigrationsPath).Msg("migrations up to date")
		case err != nil:
			store.Close()
			return nil, nil, fmt.Errorf("migrating: %w", err)
		default:
			log.Info().Str("path", cfg.MigrationsPath).Msg("migrations applied")
		}

		closeStore := func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("closing db")
			}
		}
		return store, closeStore, nil

	case config.StorageMemory:
		store, err := inmemory.NewInMemoryStore()
		if err != nil {
			return nil, nil, fmt.Errorf("creating in-memory store: %w", err)
		}
		log.Warn().Msg("using in-memory store, books are lost on exit")
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
