package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheServiceDisabledSkipsStore(t *testing.T) {
	store := newMemoryStore()
	cache := NewCacheService(store, nil, 0, nil, false)

	var out map[string]int
	found, err := cache.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, cache.Set(context.Background(), "k", map[string]int{"a": 1}, 0))
	require.NoError(t, cache.Invalidate(context.Background(), "k*"))

	assert.False(t, cache.Enabled())
	assert.Empty(t, store.gets)
	assert.Empty(t, store.sets)
	assert.Empty(t, store.deletes)
}

func TestCacheServiceRoundTripRecordsMetrics(t *testing.T) {
	store := newMemoryStore()
	metrics := NewMetricsService()
	cache := NewCacheService(store, metrics, time.Minute, nil, true)

	var out map[string]int
	found, err := cache.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(context.Background(), "k", map[string]int{"a": 1}, 0))
	found, err = cache.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, out["a"])

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
}

func TestCacheServiceSurfacesStoreErrors(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("read only replica")
	cache := NewCacheService(store, nil, 0, nil, true)

	var out map[string]int
	found, err := cache.Get(context.Background(), "k", &out)
	assert.False(t, found)
	assert.EqualError(t, err, "connection refused")
	assert.EqualError(t, cache.Set(context.Background(), "k", 1, 0), "read only replica")
}
