package domain

import "strings"

// Review is a user review owned by exactly one App.
//
// AppName is a denormalized copy of the owning App's name taken at write time.
// It is backfilled from the App when empty and never resynced afterwards, so it
// may go stale after the App is renamed.
type Review struct {
	ID                int64    `json:"id"`
	AppID             int64    `json:"app"`
	AppName           string   `json:"app_name"`
	TranslatedReview  *string  `json:"translated_review"`
	Sentiment         *string  `json:"sentiment"`
	SentimentPolarity *float64 `json:"sentiment_polarity"`
}

// ReviewKey is the ingestion idempotency key for reviews.
type ReviewKey struct {
	AppID int64
	Text  string
}

func (r *Review) Key() ReviewKey {
	k := ReviewKey{AppID: r.AppID}
	if r.TranslatedReview != nil {
		k.Text = *r.TranslatedReview
	}
	return k
}

// BackfillAppName copies the owning App's name when AppName is empty.
func (r *Review) BackfillAppName(owner App) {
	if r.AppName == "" {
		r.AppName = owner.Name
	}
}

func (r *Review) Validate() error {
	ve := &ValidationError{}
	if r.AppID <= 0 {
		ve.Add("app", "This field is required.")
	}
	if runeLen(r.AppName) > MaxNameColumn {
		ve.Add("app_name", tooLong(MaxNameColumn))
	}
	if r.Sentiment != nil && runeLen(*r.Sentiment) > 200 {
		ve.Add("sentiment", tooLong(200))
	}
	return ve.OrNil()
}

// SentimentMatches reports whether the review's label equals s ignoring case.
func (r *Review) SentimentMatches(s string) bool {
	return r.Sentiment != nil && strings.EqualFold(*r.Sentiment, s)
}
