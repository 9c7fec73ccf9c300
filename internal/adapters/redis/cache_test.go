package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "playstore/internal/adapters/redis"
	"playstore/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_RoundTripAndTTL(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	var got domain.GenreAverages
	ok, err := c.Get(ctx, domain.CacheKeyGenreAvg, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	want := domain.GenreAverages{"Photography": 4.7, "Editors": 4.7}
	require.NoError(t, c.Set(ctx, domain.CacheKeyGenreAvg, want, 60))

	ok, err = c.Get(ctx, domain.CacheKeyGenreAvg, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, 60*time.Second, mr.TTL(domain.CacheKeyGenreAvg))

	mr.FastForward(61 * time.Second)
	ok, err = c.Get(ctx, domain.CacheKeyGenreAvg, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Del(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, domain.CacheKeyCategoryStats, domain.CategoryStats{"GAME": {Count: 1}}, 60))
	require.NoError(t, c.Del(ctx, domain.CacheKeyCategoryStats))
	assert.False(t, mr.Exists(domain.CacheKeyCategoryStats))
}

func TestCache_UndecodableValueIsMiss(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set(domain.CacheKeyCategoryStats, "not json"))

	var got domain.CategoryStats
	ok, err := c.Get(context.Background(), domain.CacheKeyCategoryStats, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_ServerDown(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	var got domain.CategoryStats
	ok, err := c.Get(context.Background(), domain.CacheKeyCategoryStats, &got)
	assert.Error(t, err)
	assert.False(t, ok)
}
