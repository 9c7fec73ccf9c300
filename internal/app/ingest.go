package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"playstore/internal/domain"
)

const (
	DatasetApps    = "apps"
	DatasetReviews = "reviews"
)

type rowOutcome int

const (
	rowInserted rowOutcome = iota
	rowExisting
	rowSkipped
)

// RowError is a row that failed and was left out of the load.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e RowError) Unwrap() error { return e.Err }

// IngestReport is the fold of every row outcome of one run.
type IngestReport struct {
	RunID    string
	Dataset  string
	Inserted int
	Existing int
	Skipped  int
	Failed   int
	Errors   []RowError
}

type IngestionService struct {
	repo  domain.Repository
	stats *StatsCache
}

// NewIngestionService wires the loaders. Runs that insert Apps evict stats.
func NewIngestionService(r domain.Repository, stats *StatsCache) *IngestionService {
	return &IngestionService{repo: r, stats: stats}
}

// IngestApps inserts every App whose name is not stored yet. Existing Apps are
// left untouched, so re-running on the same file inserts nothing.
func (s *IngestionService) IngestApps(ctx context.Context, src domain.RowSource) (IngestReport, error) {
	rep, err := s.run(ctx, DatasetApps, src, s.ingestAppRow)
	// even a partial run may have inserted rows
	if rep.Inserted > 0 {
		s.stats.Evict(ctx)
	}
	return rep, err
}

func (s *IngestionService) ingestAppRow(ctx context.Context, row domain.Row) (rowOutcome, error) {
	a, err := mapAppRow(row.Fields)
	if err != nil {
		return 0, err
	}
	_, err = s.repo.FindAppByName(ctx, a.Name)
	switch {
	case err == nil:
		return rowExisting, nil
	case !errors.Is(err, domain.ErrNotFound):
		return 0, err
	}
	if err := s.repo.CreateApp(ctx, &a); err != nil {
		return 0, err
	}
	return rowInserted, nil
}

// IngestReviews inserts reviews keyed by (owning App, review text). Rows naming
// no app, or an app that cannot be resolved, are skipped.
func (s *IngestionService) IngestReviews(ctx context.Context, src domain.RowSource) (IngestReport, error) {
	owners := map[string]int64{} // 0 = known miss
	return s.run(ctx, DatasetReviews, src, func(ctx context.Context, row domain.Row) (rowOutcome, error) {
		return s.ingestReviewRow(ctx, row, owners)
	})
}

func (s *IngestionService) ingestReviewRow(ctx context.Context, row domain.Row, owners map[string]int64) (rowOutcome, error) {
	name, rv, ok := mapReviewRow(row.Fields)
	if !ok {
		return rowSkipped, nil
	}

	appID, seen := owners[name]
	if !seen {
		app, err := s.resolveApp(ctx, name)
		switch {
		case err == nil:
			appID = app.ID
		case !errors.Is(err, domain.ErrNotFound):
			return 0, err
		}
		owners[name] = appID
	}
	if appID == 0 {
		zerolog.Ctx(ctx).Warn().Int("line", row.Line).Str("app", name).Msg("App not found: " + name)
		return rowSkipped, nil
	}
	rv.AppID = appID

	_, err := s.repo.FindReview(ctx, rv.Key())
	switch {
	case err == nil:
		return rowExisting, nil
	case !errors.Is(err, domain.ErrNotFound):
		return 0, err
	}
	if err := s.repo.CreateReview(ctx, &rv); err != nil {
		return 0, err
	}
	return rowInserted, nil
}

// resolveApp tries an exact name match, then a case-insensitive one.
func (s *IngestionService) resolveApp(ctx context.Context, name string) (domain.App, error) {
	app, err := s.repo.FindAppByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return s.repo.FindAppByNameFold(ctx, name)
	}
	return app, err
}

// run folds step over every row of src. A failing row is recorded and the
// fold continues; only source errors and cancellation end the run early.
func (s *IngestionService) run(
	ctx context.Context,
	dataset string,
	src domain.RowSource,
	step func(context.Context, domain.Row) (rowOutcome, error),
) (IngestReport, error) {
	rep := IngestReport{RunID: uuid.NewString(), Dataset: dataset}
	l := log.With().Str("run_id", rep.RunID).Str("dataset", dataset).Logger()
	ctx = l.WithContext(ctx)

	fail := func(line int, err error) {
		rep.Failed++
		rep.Errors = append(rep.Errors, RowError{Line: line, Err: err})
		l.Warn().Int("line", line).Err(err).Msg("Error processing row")
	}

	err := src.Rows(ctx, func(row domain.Row) error {
		if row.Err != nil {
			fail(row.Line, row.Err)
			return nil
		}
		out, err := step(ctx, row)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			fail(row.Line, err)
			return nil
		}
		switch out {
		case rowInserted:
			rep.Inserted++
		case rowExisting:
			rep.Existing++
		case rowSkipped:
			rep.Skipped++
		}
		return nil
	})

	l.Info().
		Int("inserted", rep.Inserted).
		Int("existing", rep.Existing).
		Int("skipped", rep.Skipped).
		Int("failed", rep.Failed).
		Msg("ingestion finished")
	return rep, err
}
