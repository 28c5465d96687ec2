package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys for public catalog reads
const (
	CacheKeyCategories = "catalog:categories"
	CacheKeyBanners    = "catalog:banners"
	CacheKeyOffers     = "catalog:offers"
)

// Cache stores JSON-encoded values under string keys
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

var (
	// CatalogCache backs category, banner and offer listings
	CatalogCache Cache = NewMemoryCache()
	CatalogTTL         = 5 * time.Minute
)

// InitCache connects to redis when addr is set and falls back to process memory otherwise
func InitCache(ctx context.Context, addr, password string, db int, ttl time.Duration) error {
	if ttl > 0 {
		CatalogTTL = ttl
	}
	if addr == "" {
		LogInfo("REDIS_ADDR not set, using in-memory catalog cache")
		CatalogCache = NewMemoryCache()
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	CatalogCache = NewRedisCache(client)
	LogInfo("Catalog cache connected to redis at %s", addr)
	return nil
}

// RedisCache implements Cache on go-redis
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, dest)
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, raw, ttl).Err()
}

func (r *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

// MemoryCache implements Cache in process memory
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (m *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return false, nil
	}
	return true, json.Unmarshal(entry.raw, dest)
}

func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{raw: raw, expires: time.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	m.mu.Unlock()
	return nil
}

// Remember returns the cached value for key or computes, stores and returns it.
// Cache failures are logged and never fail the request.
func Remember(ctx context.Context, key string, dest interface{}, compute func() (interface{}, error)) error {
	hit, err := CatalogCache.Get(ctx, key, dest)
	if err != nil {
		LogWarn("Cache read failed for %s: %v", key, err)
	}
	if hit && err == nil {
		cacheLookups.WithLabelValues("hit").Inc()
		return nil
	}
	cacheLookups.WithLabelValues("miss").Inc()

	value, err := compute()
	if err != nil {
		return err
	}
	if err := CatalogCache.Set(ctx, key, value, CatalogTTL); err != nil {
		LogWarn("Cache write failed for %s: %v", key, err)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// InvalidateCatalog drops every cached public catalog listing
func InvalidateCatalog(ctx context.Context) {
	if err := CatalogCache.DeletePrefix(ctx, "catalog:"); err != nil {
		LogWarn("Failed to invalidate catalog cache: %v", err)
	}
}
