package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"playstore/internal/domain"
)

func (h *Handlers) listApps(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Q.ListApps(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apps)
}

func (h *Handlers) getApp(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.Q.GetApp(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, a)
}

func (h *Handlers) createApp(w http.ResponseWriter, r *http.Request) {
	var a domain.App
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID, a.Reviews = 0, nil // server-assigned / read-only
	if err := h.C.CreateApp(r.Context(), &a); err != nil {
		fail(w, r, err)
		return
	}
	created, err := h.Q.GetApp(r.Context(), a.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

// putApp replaces every writable field; omitted fields become null.
func (h *Handlers) putApp(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var a domain.App
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID = id
	h.update(w, r, a)
}

// patchApp decodes the body onto the stored App, so only supplied fields change.
func (h *Handlers) patchApp(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.Q.GetApp(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID = id
	h.update(w, r, a)
}

func (h *Handlers) update(w http.ResponseWriter, r *http.Request, a domain.App) {
	updated, err := h.C.UpdateApp(r.Context(), a)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (h *Handlers) deleteApp(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.C.DeleteApp(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) avgRatingByGenre(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.AvgRatingByGenre(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) categoryStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.CategoryStats(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) searchByName(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "Query parameter q is required")
		return
	}
	out, err := h.Q.SearchByName(r.Context(), q)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) priceRange(w http.ResponseWriter, r *http.Request) {
	var pr domain.PriceRange
	for _, b := range []struct {
		param string
		dst   **float64
	}{{"min_price", &pr.Min}, {"max_price", &pr.Max}} {
		s := strings.TrimSpace(r.URL.Query().Get(b.param))
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Bad Request", b.param+" must be a number")
			return
		}
		*b.dst = &f
	}
	out, err := h.Q.PriceRange(r.Context(), pr)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) topRated(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.TopRated(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}
