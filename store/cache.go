package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dcode-github/property_marketplace/models"
	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix     = "property:"
	cacheGenerationKey = cacheKeyPrefix + "generation"
	cacheScanMatch     = cacheKeyPrefix + "list:*"
	cacheScanCount     = 100
	DefaultCacheTTL    = 10 * time.Minute
)

// CachedProperties keeps List results in Redis. Entries are keyed by a
// generation counter that every write through it bumps, so a List that read
// the store before a write can only fill a generation nobody reads any more.
// Redis failures degrade to the wrapped store and are only logged.
type CachedProperties struct {
	next   PropertyStore
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedProperties(next PropertyStore, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedProperties {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedProperties{next: next, redis: client, ttl: ttl, logger: logger}
}

func (c *CachedProperties) List(ctx context.Context, q ListQuery) ([]models.Property, error) {
	gen, err := c.redis.Get(ctx, cacheGenerationKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		gen = "0"
	case err != nil:
		c.logger.Warn("redis get failed", "key", cacheGenerationKey, "error", err)
		return c.next.List(ctx, q)
	}
	key := listCacheKey(gen, q)

	cached, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var props []models.Property
		if err := json.Unmarshal(cached, &props); err == nil {
			c.logger.Debug("catalog cache hit", "key", key)
			return props, nil
		}
		c.logger.Warn("discarding unreadable cache entry", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("redis get failed", "key", key, "error", err)
	}

	c.logger.Debug("catalog cache miss", "key", key)
	props, err := c.next.List(ctx, q)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(props)
	if err != nil {
		c.logger.Warn("failed to encode catalog for cache", "error", err)
		return props, nil
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache catalog", "key", key, "error", err)
	}
	return props, nil
}

func (c *CachedProperties) Get(ctx context.Context, id string) (models.Property, error) {
	return c.next.Get(ctx, id)
}

func (c *CachedProperties) Create(ctx context.Context, p *models.Property) error {
	if err := c.next.Create(ctx, p); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

func (c *CachedProperties) SetStatus(ctx context.Context, id string, status models.Status) error {
	if err := c.next.SetStatus(ctx, id, status); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

func (c *CachedProperties) Delete(ctx context.Context, id string) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// Invalidate starts a new cache generation and removes the cached listings
// of older ones.
func (c *CachedProperties) Invalidate(ctx context.Context) {
	if err := c.redis.Incr(ctx, cacheGenerationKey).Err(); err != nil {
		c.logger.Error("failed to bump catalog cache generation", "error", err)
		return
	}

	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := c.redis.Scan(ctx, cursor, cacheScanMatch, cacheScanCount).Result()
		if err != nil {
			c.logger.Error("redis scan failed during cache invalidation", "pattern", cacheScanMatch, "error", err)
			return
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return
	}

	pipe := c.redis.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("failed to delete cached listings", "count", len(keys), "error", err)
		return
	}
	c.logger.Debug("catalog cache invalidated", "count", len(keys))
}

func listCacheKey(gen string, q ListQuery) string {
	sum := sha256.Sum256([]byte("status=" + string(q.Status) + "&owner=" + q.OwnerID))
	return cacheKeyPrefix + "list:" + gen + ":" + hex.EncodeToString(sum[:])
}
