package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"playstore/internal/app"
	"playstore/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

const notFoundDetail = "Not found."

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api/apps", func(r chi.Router) {
		r.Get("/", h.listApps)
		r.Post("/", h.createApp)
		r.Get("/avg_rating_by_genre", h.avgRatingByGenre)
		r.Get("/category_stats", h.categoryStats)
		r.Get("/search_by_name", h.searchByName)
		r.Get("/price_range", h.priceRange)
		r.Get("/{id}", h.getApp)
		r.Put("/{id}", h.putApp)
		r.Patch("/{id}", h.patchApp)
		r.Delete("/{id}", h.deleteApp)
	})
	s.mux.Route("/api/reviews", func(r chi.Router) {
		r.Get("/", h.listReviews)
		r.Post("/", h.createReview)
		r.Get("/by_sentiment", h.reviewsBySentiment)
		r.Get("/polarity_stats", h.polarityStats)
		r.Get("/{id}", h.getReview)
		r.Delete("/{id}", h.deleteReview)
	})
	s.mux.Get("/top-rated", h.topRated)

	s.mux.Get("/", h.indexPage)
	s.mux.Post("/apps/new", h.createAppForm)
	s.mux.Get("/top-rated/page", h.topRatedPage)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// fail maps a service error onto its HTTP problem.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblemBody(w, problem{
			Type: "about:blank", Title: "Validation Failed", Status: http.StatusBadRequest,
			Detail: ve.Error(), Errors: ve.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", notFoundDetail)
	case errors.Is(err, domain.ErrMissingField):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON writes v with the given status. Successful GETs carry a weak ETag
// and answer a matching If-None-Match with 304.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if status == http.StatusOK && r.Method == http.MethodGet && etag != "" {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag) // include ETag on 304
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write body")
	}
}

// pathID reads {id}; anything that is not a positive integer cannot name a row.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusNotFound, "Not Found", notFoundDetail)
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Malformed JSON", err.Error())
		return false
	}
	return true
}
