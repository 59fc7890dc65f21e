package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adamanr/org_registry/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	url := fmt.Sprintf("postgres://%s:%s@%s/%s",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Database)

	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		logger.Error("Error parsing DB config", slog.String("error", err.Error()))
		return nil, err
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("Error connecting to DB", slog.String("error", err.Error()))
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Error pinging DB", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Connected to DB successfully", slog.String("host", cfg.Database.Host))
	return pool, nil
}
