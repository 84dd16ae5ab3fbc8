// Package redis builds the shared Redis client.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"planning_backend/internal/config"
)

func optionsFromConfig(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewRedisClient connects and pings. Callers treat an error as "run without Redis".
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("redis address is not configured")
	}

	rdb := redis.NewClient(optionsFromConfig(cfg))

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}
