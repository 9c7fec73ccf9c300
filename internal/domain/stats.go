package domain

// GenreAverages maps a genre token to the mean rating of Apps carrying it.
type GenreAverages map[string]float64

// CategoryStat summarizes one category. AvgRating is nil when no App in the
// category has a rating.
type CategoryStat struct {
	Count     int      `json:"count"`
	AvgRating *float64 `json:"avg_rating"`
}

type CategoryStats map[string]CategoryStat

type PolarityStats struct {
	TotalReviews int64    `json:"total_reviews"`
	AvgPolarity  *float64 `json:"avg_polarity"`
}

// PriceRange bounds are inclusive; nil means unbounded.
type PriceRange struct {
	Min, Max *float64
}
