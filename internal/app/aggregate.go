package app

import "playstore/internal/domain"

// GenreAccumulator folds Apps into per-genre rating means. An App listed under
// several genres contributes its rating once to each of them.
type GenreAccumulator struct {
	sum   map[string]float64
	count map[string]int
}

func NewGenreAccumulator() *GenreAccumulator {
	return &GenreAccumulator{sum: map[string]float64{}, count: map[string]int{}}
}

func (g *GenreAccumulator) Add(a domain.App) {
	if a.Rating == nil || a.Genres == nil {
		return
	}
	for _, tok := range domain.GenreTokens(*a.Genres) {
		g.sum[tok] += *a.Rating
		g.count[tok]++
	}
}

func (g *GenreAccumulator) Result() domain.GenreAverages {
	out := make(domain.GenreAverages, len(g.sum))
	for k, s := range g.sum {
		out[k] = s / float64(g.count[k])
	}
	return out
}

type categoryTally struct {
	count      int
	ratingSum  float64
	ratedCount int
}

// CategoryAccumulator folds Apps into per-category counts and rating means.
// Apps without a category are counted under domain.UnknownCategory.
type CategoryAccumulator struct {
	cats map[string]*categoryTally
}

func NewCategoryAccumulator() *CategoryAccumulator {
	return &CategoryAccumulator{cats: map[string]*categoryTally{}}
}

func (c *CategoryAccumulator) Add(a domain.App) {
	key := a.CategoryOrUnknown()
	t, ok := c.cats[key]
	if !ok {
		t = &categoryTally{}
		c.cats[key] = t
	}
	t.count++
	if a.Rating != nil {
		t.ratingSum += *a.Rating
		t.ratedCount++
	}
}

func (c *CategoryAccumulator) Result() domain.CategoryStats {
	out := make(domain.CategoryStats, len(c.cats))
	for k, t := range c.cats {
		st := domain.CategoryStat{Count: t.count}
		if t.ratedCount > 0 {
			avg := t.ratingSum / float64(t.ratedCount)
			st.AvgRating = &avg
		}
		out[k] = st
	}
	return out
}

// inPriceRange reports whether the App's price parses and lies within pr.
func inPriceRange(a domain.App, pr domain.PriceRange) bool {
	p, ok := parsePrice(a.Price)
	if !ok {
		return false
	}
	if pr.Min != nil && p < *pr.Min {
		return false
	}
	if pr.Max != nil && p > *pr.Max {
		return false
	}
	return true
}
