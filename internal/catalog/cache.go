package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"catalog-assistant/internal/common/logger"
	"catalog-assistant/internal/common/metrics"
	"catalog-assistant/internal/models"
)

const cacheKeyPrefix = "chat:"

// Cache is a read-through JSON cache in front of the stores. A nil *Cache is
// valid and never hits. Redis failures degrade to a miss.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewCache returns nil when client is nil or ttl is not positive.
func NewCache(client *redis.Client, ttl time.Duration, log logger.Logger) *Cache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &Cache{client: client, ttl: ttl, logger: log}
}

func tableCacheKey(table, searchTerm string) string {
	return cacheKeyPrefix + "table:" + table + ":" + strings.ToLower(searchTerm)
}

func productCacheKey(phrase string) string {
	return cacheKeyPrefix + "product:" + strings.ToLower(phrase)
}

func (c *Cache) get(ctx context.Context, key string, dst interface{}) bool {
	if c == nil {
		return false
	}

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			metrics.ChatCacheLookups.WithLabelValues("miss").Inc()
		} else {
			metrics.ChatCacheLookups.WithLabelValues("error").Inc()
			c.logger.Warn("cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return false
	}

	if err := json.Unmarshal([]byte(val), dst); err != nil {
		metrics.ChatCacheLookups.WithLabelValues("error").Inc()
		return false
	}
	metrics.ChatCacheLookups.WithLabelValues("hit").Inc()
	return true
}

// getRecords reads table rows written by setRecords with their Go types intact.
func (c *Cache) getRecords(ctx context.Context, key string) ([]models.GenericRecord, bool) {
	var rows []cachedRecord
	if !c.get(ctx, key, &rows) {
		return nil, false
	}
	records, err := decodeRecords(rows)
	if err != nil {
		c.logger.Warn("cache entry unreadable", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}
	return records, true
}

func (c *Cache) setRecords(ctx context.Context, key string, records []models.GenericRecord) {
	if c == nil {
		return
	}
	rows, err := encodeRecords(records)
	if err != nil {
		c.logger.Warn("records not cacheable", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}
	c.set(ctx, key, rows)
}

func (c *Cache) set(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
