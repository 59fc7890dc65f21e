package database

import (
	"context"
	"log/slog"

	"github.com/adamanr/org_registry/internal/cache"
	"github.com/adamanr/org_registry/internal/config"
	"github.com/adamanr/org_registry/internal/repository"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
)

// Store is the set of repositories selected by configuration together with
// the connections backing them.
type Store struct {
	Repos   *repository.Repositories
	closers []func() error
}

// Open builds the repositories for cfg.Storage.Backend and, when redis is
// enabled, puts them behind the read-through cache.
func Open(ctx context.Context, cfg *config.Config, lookups *prometheus.CounterVec, logger *slog.Logger) (*Store, error) {
	store := &Store{}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Warn("Using in-memory storage, records are lost on exit")
		store.Repos = repository.NewMemory()
	default:
		pool, err := NewPool(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		store.closers = append(store.closers, func() error {
			pool.Close()
			return nil
		})
		store.Repos = repository.NewPostgres(pool, logger)
	}

	if cfg.Redis.Enabled {
		rdb, err := NewRedisConn(ctx, cfg, logger)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		store.closers = append(store.closers, rdb.Close)
		store.Repos = cache.WrapAll(store.Repos, rdb, cache.Options{
			Prefix:  cfg.Redis.Prefix,
			TTL:     cfg.Redis.CacheTTL,
			Lookups: lookups,
			Logger:  logger,
		})
	}

	return store, nil
}

// Close releases every connection, in reverse order of opening.
func (s *Store) Close() error {
	var result *multierror.Error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			result = multierror.Append(result, err)
		}
	}
	s.closers = nil
	return result.ErrorOrNil()
}
