package app

import (
	"context"
	"errors"
	"fmt"

	"playstore/internal/domain"
)

// CommandService owns App and Review writes made through the API and the HTML
// form. Every App write evicts the cached statistics.
type CommandService struct {
	repo  domain.Repository
	stats *StatsCache
}

func NewCommandService(r domain.Repository, stats *StatsCache) *CommandService {
	return &CommandService{repo: r, stats: stats}
}

func (s *CommandService) CreateApp(ctx context.Context, a *domain.App) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateApp(ctx, a); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

// CreateAppFromForm is the HTML form path; it also enforces the 0..5 rating range.
func (s *CommandService) CreateAppFromForm(ctx context.Context, a *domain.App) error {
	ve := &domain.ValidationError{}
	if err := a.Validate(); err != nil {
		var fe *domain.ValidationError
		if !errors.As(err, &fe) {
			return err
		}
		ve = fe
	}
	if err := domain.ValidateRatingRange(a.Rating); err != nil {
		ve.Add("rating", "Rating must be between 0 and 5")
	}
	if err := ve.OrNil(); err != nil {
		return err
	}
	if err := s.repo.CreateApp(ctx, a); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

// UpdateApp replaces every column of an existing App and returns it reloaded.
func (s *CommandService) UpdateApp(ctx context.Context, a domain.App) (domain.App, error) {
	if err := a.Validate(); err != nil {
		return domain.App{}, err
	}
	if err := s.repo.UpdateApp(ctx, a); err != nil {
		return domain.App{}, err
	}
	s.invalidateStats(ctx)
	return s.repo.GetApp(ctx, a.ID)
}

// DeleteApp removes the App and, by cascade, its Reviews.
func (s *CommandService) DeleteApp(ctx context.Context, id int64) error {
	if err := s.repo.DeleteApp(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

// CreateReview stores rv, taking app_name from the owning App when empty.
func (s *CommandService) CreateReview(ctx context.Context, rv *domain.Review) error {
	if err := rv.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateReview(ctx, rv); err != nil {
		if errors.Is(err, domain.ErrAppNotFound) {
			ve := &domain.ValidationError{}
			ve.Add("app", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", rv.AppID))
			return ve
		}
		return err
	}
	return nil
}

func (s *CommandService) DeleteReview(ctx context.Context, id int64) error {
	return s.repo.DeleteReview(ctx, id)
}

func (s *CommandService) invalidateStats(ctx context.Context) { s.stats.Evict(ctx) }
