package recipe

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "recipe:"

// Cache remembers rendered recipe answers per dish name.
type Cache interface {
	Get(ctx context.Context, food string) (string, bool, error)
	Set(ctx context.Context, food, answer string) error
}

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Cache = &RedisCache{}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, food string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, cacheKeyPrefix+food).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, food, answer string) error {
	return c.rdb.Set(ctx, cacheKeyPrefix+food, answer, c.ttl).Err()
}
