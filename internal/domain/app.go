package domain

import "strings"

// App is one Play Store listing. Only Name is required; every other column is
// kept as found in the dataset (installs like "1,000+", prices like "$2.99").
type App struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Category       *string  `json:"category"`
	Rating         *float64 `json:"rating"`
	ReviewCount    *int64   `json:"reviews_count"`
	Size           *string  `json:"size"`
	Installs       *string  `json:"installs"`
	Type           *string  `json:"type"`
	Price          *string  `json:"price"`
	ContentRating  *string  `json:"content_rating"`
	Genres         *string  `json:"genres"`
	LastUpdated    *string  `json:"last_updated"`
	CurrentVersion *string  `json:"current_version"`
	AndroidVersion *string  `json:"android_version"`
	Reviews        []Review `json:"reviews"`
}

// column limits mirror the store schema
var appFieldLimits = []struct {
	field string
	max   int
	get   func(a *App) *string
}{
	{"category", 500, func(a *App) *string { return a.Category }},
	{"size", 200, func(a *App) *string { return a.Size }},
	{"installs", 200, func(a *App) *string { return a.Installs }},
	{"type", 100, func(a *App) *string { return a.Type }},
	{"price", 100, func(a *App) *string { return a.Price }},
	{"content_rating", 200, func(a *App) *string { return a.ContentRating }},
	{"genres", 500, func(a *App) *string { return a.Genres }},
	{"last_updated", 200, func(a *App) *string { return a.LastUpdated }},
	{"current_version", 200, func(a *App) *string { return a.CurrentVersion }},
	{"android_version", 200, func(a *App) *string { return a.AndroidVersion }},
}

// Validate checks the constraints the store enforces: a non-blank name and
// per-column length limits. Rating range is not checked here; see ValidateRatingRange.
func (a *App) Validate() error {
	ve := &ValidationError{}
	switch {
	case strings.TrimSpace(a.Name) == "":
		ve.Add("name", "This field may not be blank.")
	case runeLen(a.Name) > MaxNameColumn:
		ve.Add("name", tooLong(MaxNameColumn))
	}
	for _, l := range appFieldLimits {
		if v := l.get(a); v != nil && runeLen(*v) > l.max {
			ve.Add(l.field, tooLong(l.max))
		}
	}
	return ve.OrNil()
}

// ValidateRatingRange is the rule applied by the HTML add-app form. NaN is
// outside every range.
func ValidateRatingRange(r *float64) error {
	if r != nil && !(*r >= MinRating && *r <= MaxRating) {
		ve := &ValidationError{}
		ve.Add("rating", "Rating must be between 0 and 5")
		return ve
	}
	return nil
}

// GenreTokens splits a multi-valued genre string on ',' and ';', trimming
// whitespace and dropping empty tokens. Case and spelling are preserved.
func GenreTokens(genres string) []string {
	parts := strings.FieldsFunc(genres, func(r rune) bool { return r == ',' || r == ';' })
	out := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// CategoryOrUnknown returns the App's category label, defaulting absent or
// empty values to UnknownCategory.
func (a *App) CategoryOrUnknown() string {
	if a.Category == nil || *a.Category == "" {
		return UnknownCategory
	}
	return *a.Category
}

// TruncateName cuts a name to MaxNameLength characters.
func TruncateName(name string) string {
	if runeLen(name) <= MaxNameLength {
		return name
	}
	return string([]rune(name)[:MaxNameLength])
}

func runeLen(s string) int { return len([]rune(s)) }
