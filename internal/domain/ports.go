package domain

import "context"

type AppRepository interface {
	// Write paths
	CreateApp(ctx context.Context, a *App) error
	UpdateApp(ctx context.Context, a App) error
	DeleteApp(ctx context.Context, id int64) error

	// Read paths
	GetApp(ctx context.Context, id int64) (App, error)
	ListApps(ctx context.Context) ([]App, error)
	FindAppByName(ctx context.Context, name string) (App, error)
	FindAppByNameFold(ctx context.Context, name string) (App, error)
	SearchApps(ctx context.Context, q string) ([]App, error)
	TopRated(ctx context.Context, limit int) ([]App, error)
	// EachApp streams every App (without reviews) in id order.
	EachApp(ctx context.Context, fn func(App) error) error
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, r *Review) error
	DeleteReview(ctx context.Context, id int64) error

	GetReview(ctx context.Context, id int64) (Review, error)
	ListReviews(ctx context.Context) ([]Review, error)
	FindReview(ctx context.Context, key ReviewKey) (Review, error)
	ReviewsBySentiment(ctx context.Context, sentiment string, limit int) ([]Review, error)
	PolarityStats(ctx context.Context) (PolarityStats, error)
}

type Repository interface {
	AppRepository
	ReviewRepository
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Row is one data record of a delimited file keyed by header name.
// Err is set when the record could not be parsed; Fields is then partial or nil.
type Row struct {
	Line   int
	Fields map[string]string
	Err    error
}

type RowSource interface {
	Rows(ctx context.Context, fn func(Row) error) error
}

// Cache keys for derived statistics.
const (
	CacheKeyGenreAvg      = "stats:genre_avg"
	CacheKeyCategoryStats = "stats:category"
)
