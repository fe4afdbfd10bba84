package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/ForceRank/internal/dashboard"
)

// Detail returns the drill-down for one record under the query's weights and
// sort, rank included.
// GET /api/v1/records/{id}
func (h *RankingsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	view, ok := h.recompute(w, r)
	if !ok {
		return
	}
	d, err := dashboard.Find(view, chi.URLParam(r, "id"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Explain returns the weighted risk breakdown for one record.
// GET /api/v1/records/{id}/explain
func (h *RankingsHandler) Explain(w http.ResponseWriter, r *http.Request) {
	view, ok := h.recompute(w, r)
	if !ok {
		return
	}
	e, err := dashboard.Explain(view, chi.URLParam(r, "id"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, dashboard.ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
