package httpserver

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"playstore/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"rating": func(p *float64, prec int) string {
		if p == nil {
			return "-"
		}
		return strconv.FormatFloat(*p, 'f', prec, 64)
	},
}).ParseFS(templateFS, "templates/*.html"))

type indexPage struct {
	Query   string
	Results []domain.App
	Stats   domain.CategoryStats
	Form    url.Values
	Errors  map[string][]string
}

type topRatedPage struct {
	Apps []domain.App
}

func renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handlers) indexPage(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, http.StatusOK, nil, nil)
}

func (h *Handlers) renderIndex(w http.ResponseWriter, r *http.Request, status int, form url.Values, errs map[string][]string) {
	data := indexPage{Query: r.URL.Query().Get("q"), Form: form, Errors: errs}
	var err error
	if data.Query != "" {
		if data.Results, err = h.Q.SearchByName(r.Context(), data.Query); err != nil {
			fail(w, r, err)
			return
		}
	}
	if data.Stats, err = h.Q.CategoryStats(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	renderPage(w, r, status, "index.html", data)
}

// createAppForm handles the add-app form: 303 back to / on success, the form
// re-rendered with field errors otherwise.
func (h *Handlers) createAppForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	a, ve := appFromForm(r.PostForm)
	if err := ve.OrNil(); err != nil {
		h.renderIndex(w, r, http.StatusBadRequest, r.PostForm, ve.Fields)
		return
	}
	if err := h.C.CreateAppFromForm(r.Context(), &a); err != nil {
		var fe *domain.ValidationError
		if errors.As(err, &fe) {
			h.renderIndex(w, r, http.StatusBadRequest, r.PostForm, fe.Fields)
			return
		}
		fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) topRatedPage(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Q.TopRated(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	renderPage(w, r, http.StatusOK, "top_rated.html", topRatedPage{Apps: apps})
}

// appFromForm reads the form fields; blank inputs become nulls. Only numeric
// parse failures are reported here, the rest is left to the command service.
func appFromForm(f url.Values) (domain.App, *domain.ValidationError) {
	ve := &domain.ValidationError{}
	opt := func(k string) *string {
		v := strings.TrimSpace(f.Get(k))
		if v == "" {
			return nil
		}
		return &v
	}
	a := domain.App{
		Name:           strings.TrimSpace(f.Get("name")),
		Category:       opt("category"),
		Size:           opt("size"),
		Installs:       opt("installs"),
		Type:           opt("type"),
		Price:          opt("price"),
		ContentRating:  opt("content_rating"),
		Genres:         opt("genres"),
		LastUpdated:    opt("last_updated"),
		CurrentVersion: opt("current_version"),
		AndroidVersion: opt("android_version"),
	}
	if s := opt("rating"); s != nil {
		if v, err := strconv.ParseFloat(*s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			a.Rating = &v
		} else {
			ve.Add("rating", "Enter a number.")
		}
	}
	if s := opt("reviews"); s != nil {
		if v, err := strconv.ParseInt(*s, 10, 64); err == nil {
			a.ReviewCount = &v
		} else {
			ve.Add("reviews", "Enter a whole number.")
		}
	}
	return a, ve
}
