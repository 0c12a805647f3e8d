package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jo-hoe/gorecipes/internal/backend/database"
	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyAllRecipes    = "recipes:all"
	cacheKeyPrefix        = "recipes:"
	cacheCategoryKeyShape = "recipes:category:%s"
	defaultCacheTTL       = 5 * time.Minute
)

// ListingCache holds serialized recipe listings in Redis so index and
// category pages do not hit SQLite on every request. A nil receiver or a
// cache created without an address is a no-op.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache returns nil when no cache address is configured.
func NewListingCache(config Cache) *ListingCache {
	if config.Address == "" {
		return nil
	}
	ttl := defaultCacheTTL
	if config.TTLSeconds > 0 {
		ttl = time.Duration(config.TTLSeconds) * time.Second
	}
	return &ListingCache{
		client: redis.NewClient(&redis.Options{Addr: config.Address}),
		ttl:    ttl,
	}
}

func categoryKey(category string) string {
	return fmt.Sprintf(cacheCategoryKeyShape, category)
}

// GetRecipes returns the cached listing for key and whether it was present.
// Cache failures are logged and treated as misses.
func (c *ListingCache) GetRecipes(ctx context.Context, key string) ([]*database.Recipe, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("listing cache read failed", "key", key, "error", err)
		return nil, false
	}
	var recipes []*database.Recipe
	if err := json.Unmarshal(payload, &recipes); err != nil {
		slog.Warn("listing cache payload corrupt", "key", key, "error", err)
		return nil, false
	}
	return recipes, true
}

// SetRecipes stores a listing under key. Failures are logged, never returned;
// the cache is not authoritative.
func (c *ListingCache) SetRecipes(ctx context.Context, key string, recipes []*database.Recipe) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(recipes)
	if err != nil {
		slog.Warn("listing cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		slog.Warn("listing cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops all cached listings. Called after any recipe mutation.
func (c *ListingCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Warn("listing cache scan failed", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("listing cache invalidation failed", "error", err)
	}
}

// Close releases the underlying Redis connection.
func (c *ListingCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
