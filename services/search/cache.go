package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cartscout/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const searchCachePrefix = "search:"

// RedisResultCache caches settled provider results so a repeated query
// answers instantly. Error results are never cached.
type RedisResultCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisResultCache{Client: client, TTL: ttl}
}

func cacheKey(providerID, query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return fmt.Sprintf("%s%s:%s", searchCachePrefix, providerID, normalized)
}

func (c *RedisResultCache) Get(ctx context.Context, providerID, query string) (*models.ProviderResult, bool) {
	data, err := c.Client.Get(ctx, cacheKey(providerID, query)).Result()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("search cache get failed", zap.String("provider", providerID), zap.Error(err))
		}
		return nil, false
	}
	var res models.ProviderResult
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, false
	}
	return &res, true
}

func (c *RedisResultCache) Set(ctx context.Context, providerID, query string, res models.ProviderResult) {
	if res.Error != "" {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, cacheKey(providerID, query), data, c.TTL).Err(); err != nil {
		zap.L().Warn("search cache set failed", zap.String("provider", providerID), zap.Error(err))
	}
}
