package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns a pinged client, or nil when REDIS_ADD is unset and the
// catalogue cache is disabled.
func NewRedis(ctx context.Context, c *Config, logger *slog.Logger) (*redis.Client, error) {
	if c.RedisAddr == "" {
		logger.Warn("REDIS_ADD not set, catalogue cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", c.RedisAddr, err)
	}

	logger.Info("connected to redis", "addr", c.RedisAddr)
	return client, nil
}
