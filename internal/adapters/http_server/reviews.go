package httpserver

import (
	"net/http"

	"playstore/internal/domain"
)

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListReviews(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rv, err := h.Q.GetReview(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rv)
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var rv domain.Review
	if !decodeBody(w, r, &rv) {
		return
	}
	rv.ID = 0
	if err := h.C.CreateReview(r.Context(), &rv); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, rv)
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.C.DeleteReview(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) reviewsBySentiment(w http.ResponseWriter, r *http.Request) {
	s := r.URL.Query().Get("sentiment")
	if s == "" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "sentiment parameter required")
		return
	}
	out, err := h.Q.ReviewsBySentiment(r.Context(), s)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) polarityStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.PolarityStats(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}
