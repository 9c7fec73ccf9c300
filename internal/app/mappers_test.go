package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playstore/internal/domain"
)

func sp(s string) *string { return &s }

func TestParseOptionalFloat(t *testing.T) {
	cases := map[string]*float64{
		"4.1":   ptrF(4.1),
		" 3 ":   ptrF(3),
		"":      nil,
		"abc":   nil,
		"NaN":   nil,
		"-Inf":  nil,
		"1e400": nil,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseOptionalFloat(sp(in)), in)
	}
	assert.Nil(t, parseOptionalFloat(nil))
}

func ptrF(f float64) *float64 { return &f }

func TestParsePrice(t *testing.T) {
	for in, want := range map[string]float64{"$4.99": 4.99, "0": 0, "Free": 0, " free ": 0} {
		got, ok := parsePrice(sp(in))
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"Everyone", "", "$"} {
		_, ok := parsePrice(sp(in))
		assert.False(t, ok, in)
	}
	_, ok := parsePrice(nil)
	assert.False(t, ok)
}

func TestMapAppRow_Aliases(t *testing.T) {
	a, err := mapAppRow(map[string]string{"name": "snake", "content_rating": "Teen", "reviews": "1,000"})
	require.NoError(t, err)
	assert.Equal(t, "snake", a.Name)
	assert.Equal(t, "Teen", *a.ContentRating)
	assert.Nil(t, a.ReviewCount)
	assert.Nil(t, a.Category) // absent column
	a, err = mapAppRow(map[string]string{"App": "x", "Category": ""})
	require.NoError(t, err)
	assert.Equal(t, "", *a.Category) // present but empty

	_, err = mapAppRow(map[string]string{"Category": "GAME"})
	assert.ErrorIs(t, err, domain.ErrMissingField)
}

func TestMapReviewRow(t *testing.T) {
	_, _, ok := mapReviewRow(map[string]string{"Translated_Review": "x"})
	assert.False(t, ok)

	name, rv, ok := mapReviewRow(map[string]string{"App": "A", "Sentiment_Polarity": "nan"})
	require.True(t, ok)
	assert.Equal(t, "A", name)
	assert.Equal(t, "", *rv.TranslatedReview)
	assert.Equal(t, domain.DefaultSentiment, *rv.Sentiment)
	assert.Nil(t, rv.SentimentPolarity)

	_, rv, _ = mapReviewRow(map[string]string{"App": "A", "Polarity": "-0.25"})
	assert.Equal(t, -0.25, *rv.SentimentPolarity)
}

func TestGenreAccumulator(t *testing.T) {
	acc := NewGenreAccumulator()
	acc.Add(domain.App{Rating: ptrF(5), Genres: sp("A;B")})
	acc.Add(domain.App{Rating: ptrF(3), Genres: sp("A")})
	acc.Add(domain.App{Genres: sp("B")})
	acc.Add(domain.App{Rating: ptrF(1)})
	assert.Equal(t, domain.GenreAverages{"A": 4, "B": 5}, acc.Result())
	assert.Empty(t, NewGenreAccumulator().Result())
}

func TestInPriceRange(t *testing.T) {
	pr := domain.PriceRange{Min: ptrF(1), Max: ptrF(5)}
	assert.True(t, inPriceRange(domain.App{Price: sp("$1")}, pr))
	assert.True(t, inPriceRange(domain.App{Price: sp("5")}, pr))
	assert.False(t, inPriceRange(domain.App{Price: sp("Free")}, pr))
	assert.False(t, inPriceRange(domain.App{}, pr))
	assert.True(t, inPriceRange(domain.App{Price: sp("Free")}, domain.PriceRange{}))
}
