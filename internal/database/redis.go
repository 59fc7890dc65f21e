package database

import (
	"context"
	"log/slog"

	"github.com/adamanr/org_registry/internal/config"
	"github.com/redis/go-redis/v9"
)

func NewRedisConn(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.RedisAddr,
		Password: cfg.Redis.RedisPassword,
		DB:       cfg.Redis.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		logger.Error("Failed to connect to Redis", slog.Any("error", err))
		return nil, err
	}

	logger.Info("Successfully connected to Redis", slog.String("addr", cfg.Redis.RedisAddr))
	return rdb, nil
}
