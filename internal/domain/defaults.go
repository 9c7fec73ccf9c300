package domain

// Defaults applied at the ingestion and aggregation boundaries.
const (
	UnknownCategory  = "Unknown"
	DefaultSentiment = "neutral"
)

const (
	// MaxNameLength is the ingestion cut-off for App names.
	MaxNameLength = 999
	// MaxNameColumn is the storage limit for App.Name and Review.AppName.
	MaxNameColumn = 1000

	MinRating = 0.0
	MaxRating = 5.0

	TopRatedLimit  = 50
	SentimentLimit = 50
)
