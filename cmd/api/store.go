package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/anu235shka/movies-task/internal/core/ports"
	"github.com/anu235shka/movies-task/internal/infrastructure/config"
	mongostore "github.com/anu235shka/movies-task/internal/infrastructure/db/mongo"
	pgstore "github.com/anu235shka/movies-task/internal/infrastructure/db/postgres"
	"github.com/anu235shka/movies-task/internal/infrastructure/http/handlers"
)

// store bundles the repositories of the configured driver.
type store struct {
	users   ports.AuthRepository
	entries ports.EntryRepository
	check   handlers.Check
	close   func()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgstore.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if err := pgstore.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		return &store{
			users:   pgstore.NewAuthRepository(pool),
			entries: pgstore.NewEntryRepository(pool),
			check:   handlers.Check{Name: "postgres", Ping: pool.Ping},
			close:   pool.Close,
		}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		users := mongostore.NewAuthRepository(db)
		entries := mongostore.NewEntryRepository(db)
		if err := mongostore.EnsureIndexes(ctx, users, entries); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo indexes ensured")
		return &store{
			users:   users,
			entries: entries,
			check: handlers.Check{Name: "mongodb", Ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			}},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
