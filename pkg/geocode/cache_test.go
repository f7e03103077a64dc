package geocode

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey_Normalized(t *testing.T) {
	assert.Equal(t, cacheKey("Hartford, USA"), cacheKey("  hartford,  usa "))
	assert.NotEqual(t, cacheKey("Hartford"), cacheKey("Hartford, USA"))
}

func TestCache_PutGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	miss, err := c.Get(ctx, "Cairo, Egypt")
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, c.Put(ctx, "Cairo, Egypt", &Result{Latitude: 30.04, Longitude: 31.23, Matched: true}))

	hit, err := c.Get(ctx, "cairo, egypt")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.True(t, hit.Matched)
	assert.Equal(t, "cache", hit.Source)
	assert.InDelta(t, 30.04, hit.Latitude, 1e-9)
}

func TestCache_StoresNonMatches(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "Atlantis", &Result{Matched: false}))
	hit, err := c.Get(ctx, "Atlantis")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.False(t, hit.Matched)
}

func TestCache_ExpiryAndPrune(t *testing.T) {
	c, err := OpenCache(context.Background(), filepath.Join(t.TempDir(), "geocode.db"), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() }) //nolint:errcheck
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	require.NoError(t, c.Put(ctx, "Lima, Peru", &Result{Matched: true}))

	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	hit, err := c.Get(ctx, "Lima, Peru")
	require.NoError(t, err)
	assert.Nil(t, hit, "expired entries are not returned")

	n, err := c.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCachedClient_HitSkipsInner(t *testing.T) {
	inner := &stubClient{results: map[string]*Result{
		"Lima, Peru": {Latitude: -12.05, Longitude: -77.04, Matched: true, Source: "stub"},
	}}
	cc := NewCachedClient(inner, newTestCache(t))
	ctx := context.Background()

	first, err := cc.Geocode(ctx, "Lima, Peru")
	require.NoError(t, err)
	assert.Equal(t, "stub", first.Source)

	second, err := cc.Geocode(ctx, "Lima, Peru")
	require.NoError(t, err)
	assert.Equal(t, "cache", second.Source)
	assert.InDelta(t, -12.05, second.Latitude, 1e-9)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedClient_ErrorsNotCached(t *testing.T) {
	inner := &stubClient{err: errors.New("timeout")}
	cache := newTestCache(t)
	cc := NewCachedClient(inner, cache)
	ctx := context.Background()

	_, err := cc.Geocode(ctx, "Lima, Peru")
	require.Error(t, err)

	hit, err := cache.Get(ctx, "Lima, Peru")
	require.NoError(t, err)
	assert.Nil(t, hit)
}
