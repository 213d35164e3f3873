// Package cache is a thin JSON read-through cache on redis, used for hot
// analytics reads. A nil *Cache is valid and means caching is disabled.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type Cache struct {
	rdb *redis.Client
}

// New connects to redis at addr, or returns nil when addr is empty.
func New(addr string) *Cache {
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logrus.Printf("redis unreachable, caching disabled: %v", err)
		return nil
	}
	return &Cache{rdb: rdb}
}

// Get unmarshals the cached value into dest. It reports false on a miss or
// any redis failure; cache trouble must never fail a read path.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}

	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.Printf("cache get %s failed: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		logrus.Printf("cache get %s: bad payload: %v", key, err)
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logrus.Printf("cache set %s: marshal failed: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		logrus.Printf("cache set %s failed: %v", key, err)
	}
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logrus.Printf("cache invalidate failed: %v", err)
	}
}
