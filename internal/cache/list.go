// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go provides a Redis-backed cache for rendered list responses.
// Public post and category listings are served from cache between
// mutations, skipping the database query entirely. The cache is optional:
// a nil *ListCache is a valid no-op instance.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	postsKeyPrefix = "posts:"
	categoriesKey  = "categories:active"
	// DefaultListTTL is how long a cached listing stays fresh in the
	// absence of an invalidating mutation.
	DefaultListTTL = 1 * time.Minute
)

// ListCache caches serialized list responses in Redis.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a list cache backed by the given Redis client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// GetPosts retrieves a cached posts listing for the given query key.
// Returns false on miss or when caching is disabled.
func (c *ListCache) GetPosts(ctx context.Context, query string) ([]byte, bool) {
	return c.get(ctx, postsKeyPrefix+query)
}

// SetPosts stores a serialized posts listing for the given query key.
func (c *ListCache) SetPosts(ctx context.Context, query string, payload []byte) {
	c.set(ctx, postsKeyPrefix+query, payload)
}

// InvalidatePosts removes every cached posts listing. Called after any
// post mutation, since pagination and filters make targeted invalidation
// impractical.
func (c *ListCache) InvalidatePosts(ctx context.Context) {
	if c == nil {
		return
	}
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, postsKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("list cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("list cache delete error", "error", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// GetCategories retrieves the cached active-category listing.
func (c *ListCache) GetCategories(ctx context.Context) ([]byte, bool) {
	return c.get(ctx, categoriesKey)
}

// SetCategories stores the serialized active-category listing.
func (c *ListCache) SetCategories(ctx context.Context, payload []byte) {
	c.set(ctx, categoriesKey, payload)
}

// InvalidateCategories removes the cached category listing. Called after
// category mutations and after post mutations that touch post counts.
func (c *ListCache) InvalidateCategories(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, categoriesKey).Err(); err != nil {
		slog.Warn("list cache invalidate error", "error", err)
	}
}

func (c *ListCache) get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

func (c *ListCache) set(ctx context.Context, key string, payload []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "key", key, "error", err)
	}
}
