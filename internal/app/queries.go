package app

import (
	"context"
	"fmt"

	"playstore/internal/domain"
)

type QueryService struct {
	repo  domain.Repository
	stats *StatsCache
}

// NewQueryService wires reads; the aggregations go through stats.
func NewQueryService(r domain.Repository, stats *StatsCache) *QueryService {
	return &QueryService{repo: r, stats: stats}
}

func (s *QueryService) GetApp(ctx context.Context, id int64) (domain.App, error) {
	return s.repo.GetApp(ctx, id)
}

func (s *QueryService) ListApps(ctx context.Context) ([]domain.App, error) {
	return s.repo.ListApps(ctx)
}

// SearchByName matches q as a case-insensitive substring of the name.
func (s *QueryService) SearchByName(ctx context.Context, q string) ([]domain.App, error) {
	if q == "" {
		return nil, fmt.Errorf("%w: q", domain.ErrMissingField)
	}
	return s.repo.SearchApps(ctx, q)
}

func (s *QueryService) TopRated(ctx context.Context) ([]domain.App, error) {
	return s.repo.TopRated(ctx, domain.TopRatedLimit)
}

// PriceRange returns Apps whose price parses into pr, in id order.
func (s *QueryService) PriceRange(ctx context.Context, pr domain.PriceRange) ([]domain.App, error) {
	apps, err := s.repo.ListApps(ctx)
	if err != nil {
		return nil, err
	}
	out := apps[:0]
	for _, a := range apps {
		if inPriceRange(a, pr) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *QueryService) AvgRatingByGenre(ctx context.Context) (domain.GenreAverages, error) {
	return loadCached(ctx, s.stats, domain.CacheKeyGenreAvg, func(ctx context.Context) (domain.GenreAverages, error) {
		acc := NewGenreAccumulator()
		if err := s.repo.EachApp(ctx, func(a domain.App) error { acc.Add(a); return nil }); err != nil {
			return nil, err
		}
		return acc.Result(), nil
	})
}

func (s *QueryService) CategoryStats(ctx context.Context) (domain.CategoryStats, error) {
	return loadCached(ctx, s.stats, domain.CacheKeyCategoryStats, func(ctx context.Context) (domain.CategoryStats, error) {
		acc := NewCategoryAccumulator()
		if err := s.repo.EachApp(ctx, func(a domain.App) error { acc.Add(a); return nil }); err != nil {
			return nil, err
		}
		return acc.Result(), nil
	})
}

func (s *QueryService) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	return s.repo.GetReview(ctx, id)
}

func (s *QueryService) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return s.repo.ListReviews(ctx)
}

// ReviewsBySentiment returns up to domain.SentimentLimit reviews labelled
// sentiment (any case), highest polarity first.
func (s *QueryService) ReviewsBySentiment(ctx context.Context, sentiment string) ([]domain.Review, error) {
	if sentiment == "" {
		return nil, fmt.Errorf("%w: sentiment", domain.ErrMissingField)
	}
	return s.repo.ReviewsBySentiment(ctx, sentiment, domain.SentimentLimit)
}

func (s *QueryService) PolarityStats(ctx context.Context) (domain.PolarityStats, error) {
	return s.repo.PolarityStats(ctx)
}
