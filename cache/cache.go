package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis_db "github.com/allthrive/allthrive/internal/redis-db"

	"github.com/allthrive/allthrive/config"

	"github.com/go-redis/cache/v9"
)

// keyPrefix namespaces cache entries so a shared Redis can serve several
// deployments.
const keyPrefix = "allthrive:"

// localCacheSize bounds the in-process TinyLFU tier. Browse feed pages and
// listing lookups dominate the working set.
const localCacheSize = 128000

type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, data interface{}) error
	Delete(ctx context.Context, key string) error
}

func NewCache() (Cache, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	return newRedisCache([]string{fmt.Sprintf("redis://%s", cfg.Redis.Dns)}, cfg.Redis.SkipTLSVerify)
}

type redisCache struct {
	cache *cache.Cache
}

func newRedisCache(addresses []string, skipTLSVerify bool) (*redisCache, error) {
	client, err := redis_db.NewRedisClient(addresses, skipTLSVerify)
	if err != nil {
		return nil, err
	}

	c := cache.New(&cache.Options{
		Redis:      client.Client(),
		LocalCache: cache.NewTinyLFU(localCacheSize, time.Minute),
	})

	return &redisCache{cache: c}, nil
}

func (r *redisCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   keyPrefix + key,
		Value: data,
		TTL:   ttl,
	})
}

// Get loads a cached value into data. A miss is not an error; callers fall
// through to the database.
func (r *redisCache) Get(ctx context.Context, key string, data interface{}) error {
	err := r.cache.Get(ctx, keyPrefix+key, &data)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.cache.Delete(ctx, keyPrefix+key)
}
