package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	require.NoError(t, cache.Set(ctx, "catalog:a", []string{"x"}, time.Minute))
	require.NoError(t, cache.Set(ctx, "catalog:b", 1, time.Minute))
	require.NoError(t, cache.Set(ctx, "other", 2, time.Minute))
	require.NoError(t, cache.Set(ctx, "stale", 3, -time.Second))

	var got []string
	hit, err := cache.Get(ctx, "catalog:a", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"x"}, got)

	var n int
	hit, _ = cache.Get(ctx, "stale", &n)
	assert.False(t, hit)

	require.NoError(t, cache.DeletePrefix(ctx, "catalog:"))
	hit, _ = cache.Get(ctx, "catalog:b", &n)
	assert.False(t, hit)
	hit, _ = cache.Get(ctx, "other", &n)
	assert.True(t, hit)
	assert.Equal(t, 2, n)
}

func TestRemember(t *testing.T) {
	prev := CatalogCache
	CatalogCache = NewMemoryCache()
	t.Cleanup(func() { CatalogCache = prev })

	ctx := context.Background()
	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return map[string]int{"count": calls}, nil
	}

	var first, second map[string]int
	require.NoError(t, Remember(ctx, CacheKeyCategories, &first, compute))
	require.NoError(t, Remember(ctx, CacheKeyCategories, &second, compute))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	InvalidateCatalog(ctx)
	var third map[string]int
	require.NoError(t, Remember(ctx, CacheKeyCategories, &third, compute))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, third["count"])

	boom := errors.New("db down")
	err := Remember(ctx, CacheKeyBanners, &third, func() (interface{}, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestInitCacheWithoutRedis(t *testing.T) {
	prevCache, prevTTL := CatalogCache, CatalogTTL
	t.Cleanup(func() { CatalogCache, CatalogTTL = prevCache, prevTTL })

	require.NoError(t, InitCache(context.Background(), "", "", 0, 30*time.Second))
	assert.IsType(t, &MemoryCache{}, CatalogCache)
	assert.Equal(t, 30*time.Second, CatalogTTL)
}
