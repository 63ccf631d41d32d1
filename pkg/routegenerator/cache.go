package routegenerator

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

// ResponseCache keeps route service answers in redis. Entries should not outlive one edge refresh.
type ResponseCache struct {
	Cache *cache.Cache[string]
}

// ResponseCacheExpiration is half the edge refresh period. An answer cached just before a refresh is
// then served for at most one and a half periods after the traffic it was computed from.
func ResponseCacheExpiration(edgesRefreshPeriod time.Duration) time.Duration {
	return edgesRefreshPeriod / 2
}

func NewResponseCache(client *redis.Client, expiration time.Duration) *ResponseCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &ResponseCache{
		Cache: cache.New[string](redisStore),
	}
}

func (r *ResponseCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := r.Cache.Get(ctx, key)
	if err != nil {
		return "", false
	}

	return value, true
}

func (r *ResponseCache) Set(ctx context.Context, key string, value string) error {
	return r.Cache.Set(ctx, key, value)
}

func cacheKey(path string, body []byte) string {
	return fmt.Sprintf("lookahead:routegenerator:%s:%x", path, sha256.Sum256(body))
}
