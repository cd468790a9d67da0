package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Cacher is the subset of the redis client the app touches. Tests swap
// in an in-memory implementation.
type Cacher interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cache is nil when REDIS_ADDR is unset; callers must treat it as optional.
var Cache Cacher

func ConnectRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, cache disabled")
		return
	}

	db := 0
	if env := os.Getenv("REDIS_DB"); env != "" {
		if n, err := strconv.Atoi(env); err == nil {
			db = n
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis ping failed, cache disabled: %v", err)
		return
	}

	Cache = client
}

// CacheGet returns the cached payload for key, or "" when the cache is
// disabled or the key is absent.
func CacheGet(ctx context.Context, key string) string {
	if Cache == nil {
		return ""
	}
	val, err := Cache.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// CacheSet stores payload under key for ttl. A disabled cache is a no-op.
func CacheSet(ctx context.Context, key, payload string, ttl time.Duration) {
	if Cache == nil {
		return
	}
	if err := Cache.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Printf("Cache set failed for %s: %v", key, err)
	}
}
