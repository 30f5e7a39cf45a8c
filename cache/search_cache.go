package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"Tuder/logger"

	"github.com/go-redis/redis/v8"
)

const searchKeyPrefix = "search:"

// SearchCache 搜索结果缓存，值以 JSON 存储
type SearchCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewSearchCache 创建搜索缓存; ttl <= 0 关闭缓存
func NewSearchCache(client redis.Cmdable, ttl time.Duration) *SearchCache {
	return &SearchCache{client: client, ttl: ttl}
}

// SearchKey builds the cache key for one search request. Terms are compared
// case-insensitively, so they are lower-cased here too.
func SearchKey(kind, term string, limit int) string {
	return fmt.Sprintf("%s%s:%d:%s", searchKeyPrefix, kind, limit, strings.ToLower(strings.TrimSpace(term)))
}

func (c *SearchCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get loads a cached result into dest. It reports false on a miss.
func (c *SearchCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("get search cache %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode search cache %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key for the configured TTL.
func (c *SearchCache) Set(ctx context.Context, key string, value interface{}) error {
	if !c.enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode search cache %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set search cache %s: %w", key, err)
	}
	return nil
}

// Flush drops every cached search result. The library service calls it after
// uploads and playlist changes, and `tuder redis --flush` calls it by hand.
func (c *SearchCache) Flush(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	var cursor uint64
	removed := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, searchKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan search cache: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("flush search cache: %w", err)
			}
			removed += len(keys)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	logger.Debug("search cache flushed", logger.Int("keys", removed))
	return nil
}
