package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"playstore/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Column names accepted for each field, in lookup order. The Play Store exports
// use the capitalized headers; the snake_case spellings come from re-exports.
var appAliases = map[string][]string{
	"name":            {"App", "app_name", "name"},
	"category":        {"Category", "category"},
	"rating":          {"Rating", "rating"},
	"reviews":         {"Reviews", "reviews"},
	"size":            {"Size", "size"},
	"installs":        {"Installs", "installs"},
	"type":            {"Type", "type"},
	"price":           {"Price", "price"},
	"content_rating":  {"Content Rating", "content_rating"},
	"genres":          {"Genres", "genres"},
	"last_updated":    {"Last Updated", "last_updated"},
	"current_version": {"Current Ver", "current_version"},
	"android_version": {"Android Ver", "android_version"},
}

var reviewAliases = map[string][]string{
	"app":       {"App", "app_name"},
	"text":      {"Translated_Review", "translated_review"},
	"sentiment": {"Sentiment", "sentiment"},
	"polarity":  {"Sentiment_Polarity", "sentiment_polarity", "Polarity"},
}

/********** tiny helpers **********/

// rawAlias returns the first column of key that is present, even when empty.
func rawAlias(fields map[string]string, aliases map[string][]string, key string) *string {
	for _, col := range aliases[key] {
		if v, ok := fields[col]; ok {
			return &v
		}
	}
	return nil
}

// firstNonEmptyAlias returns the first non-empty value for key, or "".
func firstNonEmptyAlias(fields map[string]string, aliases map[string][]string, key string) string {
	for _, col := range aliases[key] {
		if v := fields[col]; v != "" {
			return v
		}
	}
	return ""
}

// parseOptionalFloat yields nil for empty, malformed, NaN or infinite input.
func parseOptionalFloat(s *string) *float64 {
	if s == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseOptionalInt yields nil for empty or malformed input ("1,000" included).
func parseOptionalInt(s *string) *int64 {
	if s == nil {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(*s), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// parsePrice reads "$4.99", "0" or "Free" as a number.
func parsePrice(p *string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	s := strings.TrimSpace(*p)
	if strings.EqualFold(s, "free") {
		return 0, true
	}
	f, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

/********** app row mapper **********/

func mapAppRow(fields map[string]string) (domain.App, error) {
	name := rawAlias(fields, appAliases, "name")
	if name == nil || strings.TrimSpace(*name) == "" {
		return domain.App{}, fmt.Errorf("%w: App", domain.ErrMissingField)
	}
	get := func(key string) *string { return rawAlias(fields, appAliases, key) }

	return domain.App{
		Name:           domain.TruncateName(*name),
		Category:       get("category"),
		Rating:         parseOptionalFloat(get("rating")),
		ReviewCount:    parseOptionalInt(get("reviews")),
		Size:           get("size"),
		Installs:       get("installs"),
		Type:           get("type"),
		Price:          get("price"),
		ContentRating:  get("content_rating"),
		Genres:         get("genres"),
		LastUpdated:    get("last_updated"),
		CurrentVersion: get("current_version"),
		AndroidVersion: get("android_version"),
	}, nil
}

/********** review row mapper **********/

// mapReviewRow returns the referenced app name and the review to store.
// ok is false when the row names no app.
func mapReviewRow(fields map[string]string) (appName string, rv domain.Review, ok bool) {
	appName = firstNonEmptyAlias(fields, reviewAliases, "app")
	if appName == "" {
		return "", domain.Review{}, false
	}

	text := firstNonEmptyAlias(fields, reviewAliases, "text")
	sentiment := firstNonEmptyAlias(fields, reviewAliases, "sentiment")
	if sentiment == "" {
		sentiment = domain.DefaultSentiment
	}
	var polarity *float64
	if p := firstNonEmptyAlias(fields, reviewAliases, "polarity"); p != "" {
		polarity = parseOptionalFloat(&p)
	}

	return appName, domain.Review{
		AppName:           appName,
		TranslatedReview:  &text,
		Sentiment:         &sentiment,
		SentimentPolarity: polarity,
	}, true
}
