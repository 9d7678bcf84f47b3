// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"seller-assistant/internal/common/config"
	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/common/retry"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates a Redis client without contacting the server.
func NewRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// ConnectRedis creates a client and pings it under the given retry policy.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, policy retry.Policy, log logger.Logger) (*redis.Client, error) {
	rdb := NewRedis(cfg)
	_, err := retry.Do(ctx, policy, log, "redis.ping", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, Ping(ctx, rdb)
	})
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Ping tests the Redis connection.
func Ping(ctx context.Context, rdb *redis.Client) error {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
