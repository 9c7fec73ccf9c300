package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"playstore/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	n := ni.Int64
	return &n
}
func f64Ptr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

// reviewsChunk bounds the IN (...) list when embedding reviews.
const reviewsChunk = 500

type Repo struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Repo { return &Repo{db: db, dialect: dialect} }

var _ domain.Repository = (*Repo)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanApp(s scanner) (domain.App, error) {
	var a domain.App
	var (
		category, size, installs, typ, price sql.NullString
		contentRating, genres, lastUpdated   sql.NullString
		currentVersion, androidVersion       sql.NullString
		rating                               sql.NullFloat64
		reviews                              sql.NullInt64
	)
	if err := s.Scan(
		&a.ID,
		&a.Name,
		&category,
		&rating,
		&reviews,
		&size,
		&installs,
		&typ,
		&price,
		&contentRating,
		&genres,
		&lastUpdated,
		&currentVersion,
		&androidVersion,
	); err != nil {
		return domain.App{}, err
	}
	a.Category = strPtr(category)
	a.Rating = f64Ptr(rating)
	a.ReviewCount = int64Ptr(reviews)
	a.Size = strPtr(size)
	a.Installs = strPtr(installs)
	a.Type = strPtr(typ)
	a.Price = strPtr(price)
	a.ContentRating = strPtr(contentRating)
	a.Genres = strPtr(genres)
	a.LastUpdated = strPtr(lastUpdated)
	a.CurrentVersion = strPtr(currentVersion)
	a.AndroidVersion = strPtr(androidVersion)
	return a, nil
}

func scanReview(s scanner) (domain.Review, error) {
	var rv domain.Review
	var (
		text, sentiment sql.NullString
		polarity        sql.NullFloat64
	)
	if err := s.Scan(&rv.ID, &rv.AppID, &rv.AppName, &text, &sentiment, &polarity); err != nil {
		return domain.Review{}, err
	}
	rv.TranslatedReview = strPtr(text)
	rv.Sentiment = strPtr(sentiment)
	rv.SentimentPolarity = f64Ptr(polarity)
	return rv, nil
}

func appArgs(a *domain.App) []any {
	return []any{
		a.Name,
		valStr(a.Category),
		valF64(a.Rating),
		valInt64(a.ReviewCount),
		valStr(a.Size),
		valStr(a.Installs),
		valStr(a.Type),
		valStr(a.Price),
		valStr(a.ContentRating),
		valStr(a.Genres),
		valStr(a.LastUpdated),
		valStr(a.CurrentVersion),
		valStr(a.AndroidVersion),
	}
}

// ---- Apps ----

func (r *Repo) CreateApp(ctx context.Context, a *domain.App) error {
	res, err := r.db.ExecContext(ctx, insertAppSQL, appArgs(a)...)
	if err != nil {
		return fmt.Errorf("insert app: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert app: last id: %w", err)
	}
	a.ID = id
	if a.Reviews == nil {
		a.Reviews = []domain.Review{}
	}
	return nil
}

func (r *Repo) UpdateApp(ctx context.Context, a domain.App) error {
	args := append(appArgs(&a), a.ID)
	res, err := r.db.ExecContext(ctx, updateAppSQL, args...)
	if err != nil {
		return fmt.Errorf("update app %d: %w", a.ID, err)
	}
	// MySQL reports 0 affected rows for an unchanged row, so confirm existence.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, appExistsSQL, a.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("update app %d: %w", a.ID, err)
		}
	}
	return nil
}

func (r *Repo) DeleteApp(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, deleteAppSQL, "app", id)
}

func (r *Repo) GetApp(ctx context.Context, id int64) (domain.App, error) {
	a, err := scanApp(r.db.QueryRowContext(ctx, getAppSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.App{}, domain.ErrNotFound
		}
		return domain.App{}, fmt.Errorf("get app %d: %w", id, err)
	}
	apps := []domain.App{a}
	if err := r.attachReviews(ctx, apps); err != nil {
		return domain.App{}, err
	}
	return apps[0], nil
}

func (r *Repo) ListApps(ctx context.Context) ([]domain.App, error) {
	return r.queryApps(ctx, true, listAppsSQL)
}

func (r *Repo) FindAppByName(ctx context.Context, name string) (domain.App, error) {
	return r.findApp(ctx, findAppByNameSQL, name)
}

func (r *Repo) FindAppByNameFold(ctx context.Context, name string) (domain.App, error) {
	return r.findApp(ctx, findAppByNameFoldSQL, name)
}

func (r *Repo) findApp(ctx context.Context, query, name string) (domain.App, error) {
	a, err := scanApp(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.App{}, domain.ErrNotFound
		}
		return domain.App{}, fmt.Errorf("find app %q: %w", name, err)
	}
	return a, nil
}

func (r *Repo) SearchApps(ctx context.Context, q string) ([]domain.App, error) {
	return r.queryApps(ctx, true, searchAppsSQL, likeContains(q))
}

func (r *Repo) TopRated(ctx context.Context, limit int) ([]domain.App, error) {
	return r.queryApps(ctx, true, topRatedSQL, limit)
}

// EachApp streams apps without their reviews. fn must not call back into the
// Repo: the SQLite pool holds a single connection, busy with this cursor.
func (r *Repo) EachApp(ctx context.Context, fn func(domain.App) error) error {
	rows, err := r.db.QueryContext(ctx, listAppsSQL)
	if err != nil {
		return fmt.Errorf("scan apps: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanApp(rows)
		if err != nil {
			return fmt.Errorf("scan apps: %w", err)
		}
		if err := fn(a); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *Repo) queryApps(ctx context.Context, withReviews bool, query string, args ...any) ([]domain.App, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query apps: %w", err)
	}
	out := []domain.App{}
	for rows.Next() {
		a, err := scanApp(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("query apps: %w", err)
		}
		out = append(out, a)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("query apps: %w", err)
	}
	if withReviews {
		if err := r.attachReviews(ctx, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// attachReviews fills Reviews on every app, in ascending review id order.
func (r *Repo) attachReviews(ctx context.Context, apps []domain.App) error {
	idx := make(map[int64]int, len(apps))
	ids := make([]any, 0, len(apps))
	for i := range apps {
		apps[i].Reviews = []domain.Review{}
		idx[apps[i].ID] = i
		ids = append(ids, apps[i].ID)
	}
	for start := 0; start < len(ids); start += reviewsChunk {
		end := min(start+reviewsChunk, len(ids))
		chunk := ids[start:end]
		q := reviewsForAppsPrefix + strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",") + reviewsForAppsSuffix
		rows, err := r.db.QueryContext(ctx, q, chunk...)
		if err != nil {
			return fmt.Errorf("load reviews: %w", err)
		}
		for rows.Next() {
			rv, err := scanReview(rows)
			if err != nil {
				rows.Close()
				return fmt.Errorf("load reviews: %w", err)
			}
			i := idx[rv.AppID]
			apps[i].Reviews = append(apps[i].Reviews, rv)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("load reviews: %w", err)
		}
	}
	return nil
}

// ---- Reviews ----

func (r *Repo) CreateReview(ctx context.Context, rv *domain.Review) error {
	res, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.AppName,
		rv.AppName,
		valStr(rv.TranslatedReview),
		valStr(rv.Sentiment),
		valF64(rv.SentimentPolarity),
		rv.AppID,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrAppNotFound
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert review: last id: %w", err)
	}
	rv.ID = id
	if rv.AppName == "" {
		if err := r.db.QueryRowContext(ctx, reviewAppNameSQL, id).Scan(&rv.AppName); err != nil {
			return fmt.Errorf("insert review: read app_name: %w", err)
		}
	}
	return nil
}

func (r *Repo) DeleteReview(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, deleteReviewSQL, "review", id)
}

func (r *Repo) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, getReviewSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, fmt.Errorf("get review %d: %w", id, err)
	}
	return rv, nil
}

func (r *Repo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return r.queryReviews(ctx, listReviewsSQL)
}

func (r *Repo) FindReview(ctx context.Context, key domain.ReviewKey) (domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, findReviewSQL, key.AppID, key.Text))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, fmt.Errorf("find review for app %d: %w", key.AppID, err)
	}
	return rv, nil
}

func (r *Repo) ReviewsBySentiment(ctx context.Context, sentiment string, limit int) ([]domain.Review, error) {
	return r.queryReviews(ctx, reviewsBySentimentSQL, sentiment, limit)
}

func (r *Repo) PolarityStats(ctx context.Context) (domain.PolarityStats, error) {
	var (
		st  domain.PolarityStats
		avg sql.NullFloat64
	)
	if err := r.db.QueryRowContext(ctx, polarityStatsSQL).Scan(&st.TotalReviews, &avg); err != nil {
		return domain.PolarityStats{}, fmt.Errorf("polarity stats: %w", err)
	}
	st.AvgPolarity = f64Ptr(avg)
	return st, nil
}

func (r *Repo) queryReviews(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("query reviews: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	return out, nil
}

func (r *Repo) deleteByID(ctx context.Context, query, what string, id int64) error {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", what, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", what, id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// likeContains builds a case-insensitive substring pattern, escaping LIKE
// metacharacters with '!'.
func likeContains(q string) string {
	esc := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(q)
	return "%" + esc + "%"
}
