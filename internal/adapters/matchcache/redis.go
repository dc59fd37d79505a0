package matchcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/djelite/matchengine/internal/domain/model"
	"github.com/djelite/matchengine/pkg/logger"
)

const invalidateScanCount = 100

// RedisCache is a Cache backed by Redis, for deployments running more than
// one engine process. Expiry rides on native key TTLs. Redis failures are
// absorbed: a failed read is a miss, a failed write is dropped. The cache
// must never fail a matching request.
type RedisCache struct {
	rdb *redis.Client
	log logger.Logger
}

// NewRedisCache wraps an existing Redis client.
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{
		rdb: rdb,
		log: logger.Get().Named("matchcache"),
	}
}

// Get returns the ranked list for key, treating any Redis error as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]model.MatchScore, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn(ctx, "cache read failed", logger.String("key", key), logger.Error(err))
		}
		return nil, false
	}

	var scores []model.MatchScore
	if err := json.Unmarshal(raw, &scores); err != nil {
		c.log.Warn(ctx, "cache entry corrupt, dropping", logger.String("key", key), logger.Error(err))
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}
	return scores, true
}

// Put stores scores under key with the given TTL.
func (c *RedisCache) Put(ctx context.Context, key string, scores []model.MatchScore, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	raw, err := json.Marshal(scores)
	if err != nil {
		c.log.Warn(ctx, "cache entry marshal failed", logger.String("key", key), logger.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn(ctx, "cache write failed", logger.String("key", key), logger.Error(err))
	}
}

// Invalidate removes all keys scoped to requesterID via SCAN, or every
// engine key when requesterID is empty.
func (c *RedisCache) Invalidate(ctx context.Context, requesterID string) {
	pattern := keyPrefix + "*"
	if requesterID != "" {
		pattern = requesterScope(requesterID) + "*"
	}

	iter := c.rdb.Scan(ctx, 0, pattern, invalidateScanCount).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn(ctx, "cache invalidate failed", logger.String("key", iter.Val()), logger.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn(ctx, "cache scan failed", logger.String("pattern", pattern), logger.Error(err))
	}
}
