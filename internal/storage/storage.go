// Package storage opens the backing store selected by configuration.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"courseapp/internal/config"
	"courseapp/internal/repository"
	"courseapp/internal/repository/memory"
	"courseapp/internal/repository/mongorepo"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const closeTimeout = 5 * time.Second

// Store is an open backing store
type Store struct {
	repository.Repositories
	Driver string
	close  func() error
}

// Close releases the store's connections
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the configured driver and prepares its schema
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	case config.DriverMemory:
		logger.Warn().Msg("Using in-memory store; data is lost on restart")
		return &Store{Repositories: memory.New().Repositories(), Driver: config.DriverMemory}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(normalizeDSN(cfg.Environment, cfg.DBConnectionString))
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}
	if cfg.DBMaxConns > 0 {
		poolCfg.MaxConns = cfg.DBMaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	logger.Info().Int32("max_conns", poolCfg.MaxConns).Msg("Successfully connected to the database")

	if cfg.DBAutoMigrate {
		if err := repository.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &Store{
		Repositories: repository.NewPostgresRepositories(pool),
		Driver:       config.DriverPostgres,
		close: func() error {
			pool.Close()
			return nil
		},
	}, nil
}

// normalizeDSN disables SSL for local development databases unless the
// connection string already says otherwise.
func normalizeDSN(env, dsn string) string {
	if env != "development" || strings.Contains(dsn, "sslmode") {
		return dsn
	}
	separator := " "
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		separator = "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
	}
	return dsn + separator + "sslmode=disable"
}

func openMongo(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	store, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	logger.Info().Str("database", cfg.MongoDatabase).Msg("Successfully connected to MongoDB")

	return &Store{
		Repositories: store.Repositories(),
		Driver:       config.DriverMongo,
		close: func() error {
			closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			return store.Close(closeCtx)
		},
	}, nil
}
