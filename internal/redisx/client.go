package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Cache is an optional JSON snapshot cache. A nil receiver or nil client
// disables caching: reads miss, writes are dropped. The terminal must keep
// working with no redis configured.
type Cache struct {
	RDB *redis.Client
}

// GetJSON reads key into out. Returns false on miss, disabled cache, or
// any redis error; the caller falls back to the upstream fetch.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) bool {
	if c == nil || c.RDB == nil {
		return false
	}
	b, err := c.RDB.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

// SetJSON stores v under key, best effort.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil || c.RDB == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.RDB.Set(ctx, key, b, ttl).Err()
}
