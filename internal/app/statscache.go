package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"playstore/internal/domain"
)

var statsKeys = []string{domain.CacheKeyGenreAvg, domain.CacheKeyCategoryStats}

// StatsCache is the cache-aside layer for the aggregations, shared by the
// services that read and write Apps. Every eviction bumps a generation; a load
// that started before an eviction never writes its result back.
type StatsCache struct {
	c   domain.Cache
	ttl time.Duration
	gen atomic.Int64
	sf  singleflight.Group
}

// NewStatsCache wraps c. c may be nil, which disables caching; concurrent
// loads are still collapsed.
func NewStatsCache(c domain.Cache, ttl time.Duration) *StatsCache {
	return &StatsCache{c: c, ttl: ttl}
}

// Evict drops every cached aggregation and detaches in-flight loads, so
// callers arriving after a write start a fresh load.
func (s *StatsCache) Evict(ctx context.Context) {
	s.gen.Add(1)
	for _, k := range statsKeys {
		s.sf.Forget(k)
		if s.c == nil {
			continue
		}
		if err := s.c.Del(ctx, k); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", k).Msg("stats eviction failed")
		}
	}
}

// loadCached serves key from the cache, otherwise runs load once for all
// concurrent callers and stores the result unless an eviction happened
// meanwhile.
func loadCached[T any](ctx context.Context, s *StatsCache, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	if s.c != nil {
		if ok, err := s.c.Get(ctx, key, &out); ok && err == nil {
			return out, nil
		}
	}
	v, err, _ := s.sf.Do(key, func() (any, error) {
		// joined callers must not fail because the first one went away
		lctx := context.WithoutCancel(ctx)
		gen := s.gen.Load()
		res, err := load(lctx)
		if err != nil {
			return nil, err
		}
		if s.c != nil && s.gen.Load() == gen {
			_ = s.c.Set(lctx, key, res, int(s.ttl.Seconds()))
			// an eviction that raced the Set may have run its Del first
			if s.gen.Load() != gen {
				_ = s.c.Del(lctx, key)
			}
		}
		return res, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
