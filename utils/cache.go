// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"cartscout/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient holds checkout session snapshots.
	SessionCacheClient *redis.Client
	// SearchCacheClient holds per-provider search result caches.
	SearchCacheClient *redis.Client
)

// InitRedis initializes all Redis clients up front.
func InitRedis() {
	InitSessionCache()
	InitSearchCache()
}

// InitSessionCache initializes the Redis client for checkout session snapshots.
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SessionCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Session Cache): %v", err)
	}
}

// GetSessionCacheClient returns the session snapshot client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitSearchCache initializes the Redis client for search result caching.
func InitSearchCache() {
	SearchCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSearchDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SearchCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Search Cache): %v", err)
	}
}

// GetSearchCacheClient returns the search cache client.
func GetSearchCacheClient() *redis.Client {
	if SearchCacheClient == nil {
		InitSearchCache()
	}
	return SearchCacheClient
}
