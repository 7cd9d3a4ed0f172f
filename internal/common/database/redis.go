// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"catalog-assistant/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the client backing the retrieval cache.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis returns nil when no address is configured; the cache is optional.
func NewRedis(cfg config.RedisConfig) *RedisClient {
	if cfg.Address == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:                  cfg.Address,
		Password:              cfg.Password,
		DB:                    cfg.DB,
		DialTimeout:           5 * time.Second,
		ReadTimeout:           3 * time.Second,
		WriteTimeout:          3 * time.Second,
		PoolSize:              10,
		MinIdleConns:          2,
		ContextTimeoutEnabled: true,
	})
	return &RedisClient{Client: rdb}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c != nil && c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
