package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playstore/internal/app"
	"playstore/internal/domain"
)

func TestCreateApp_ValidatesAndEvicts(t *testing.T) {
	repo := newRepo(t)
	cache := &fakeCache{}
	cmd := app.NewCommandService(repo, app.NewStatsCache(cache, time.Minute))
	ctx := context.Background()

	err := cmd.CreateApp(ctx, &domain.App{Name: "  "})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"This field may not be blank."}, ve.Fields["name"])
	assert.Empty(t, cache.dels)

	a := &domain.App{Name: "fresh", Rating: ptr(9.0)}
	require.NoError(t, cmd.CreateApp(ctx, a))
	assert.NotZero(t, a.ID)
	assert.Len(t, cache.dels, 2)
}

func TestCreateAppFromForm_RatingRange(t *testing.T) {
	cmd := app.NewCommandService(newRepo(t), app.NewStatsCache(nil, 0))
	ctx := context.Background()

	err := cmd.CreateAppFromForm(ctx, &domain.App{Name: "", Rating: ptr(5.5)})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"Rating must be between 0 and 5"}, ve.Fields["rating"])
	assert.Contains(t, ve.Fields, "name")

	require.NoError(t, cmd.CreateAppFromForm(ctx, &domain.App{Name: "ok", Rating: ptr(5.0)}))
	require.NoError(t, cmd.CreateAppFromForm(ctx, &domain.App{Name: "unrated"}))
}

func TestUpdateApp(t *testing.T) {
	repo := newRepo(t)
	cmd := app.NewCommandService(repo, app.NewStatsCache(nil, 0))
	ctx := context.Background()
	a := seed(t, repo, domain.App{Name: "before", Category: ptr("GAME")})[0]

	a.Name = "after"
	a.Category = nil
	got, err := cmd.UpdateApp(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.Nil(t, got.Category)

	_, err = cmd.UpdateApp(ctx, domain.App{ID: a.ID + 100, Name: "x"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteApp_CascadesReviews(t *testing.T) {
	repo := newRepo(t)
	cmd := app.NewCommandService(repo, app.NewStatsCache(nil, 0))
	ctx := context.Background()
	a := seed(t, repo, domain.App{Name: "gone"})[0]
	require.NoError(t, cmd.CreateReview(ctx, &domain.Review{AppID: a.ID, TranslatedReview: ptr("bye")}))

	require.NoError(t, cmd.DeleteApp(ctx, a.ID))
	reviews, err := repo.ListReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	assert.True(t, errors.Is(cmd.DeleteApp(ctx, a.ID), domain.ErrNotFound))
}

func TestCreateReview(t *testing.T) {
	repo := newRepo(t)
	cmd := app.NewCommandService(repo, app.NewStatsCache(nil, 0))
	ctx := context.Background()
	a := seed(t, repo, domain.App{Name: "Owner"})[0]

	rv := &domain.Review{AppID: a.ID, TranslatedReview: ptr("nice")}
	require.NoError(t, cmd.CreateReview(ctx, rv))
	assert.NotZero(t, rv.ID)
	assert.Equal(t, "Owner", rv.AppName)

	err := cmd.CreateReview(ctx, &domain.Review{AppID: 999})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{`Invalid pk "999" - object does not exist.`}, ve.Fields["app"])

	err = cmd.CreateReview(ctx, &domain.Review{})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"This field is required."}, ve.Fields["app"])

	require.NoError(t, cmd.DeleteReview(ctx, rv.ID))
	assert.True(t, errors.Is(cmd.DeleteReview(ctx, rv.ID), domain.ErrNotFound))
}
