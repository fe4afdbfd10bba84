package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/ForceRank/internal/dashboard"
	"github.com/MikeSquared-Agency/ForceRank/internal/ranking"
	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
)

const maxPageSize = 500

// Defaults fills query parameters the caller leaves out.
type Defaults struct {
	Weights   scoring.WeightVector
	Directive ranking.SortDirective
	PageSize  int
}

type RankingsHandler struct {
	svc      *dashboard.Service
	defaults Defaults
}

func NewRankingsHandler(svc *dashboard.Service, d Defaults) *RankingsHandler {
	return &RankingsHandler{svc: svc, defaults: d}
}

type RankingsResponse struct {
	ViewID     uuid.UUID               `json:"view_id"`
	Weights    scoring.WeightVector    `json:"weights"`
	Sort       string                  `json:"sort"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	TotalPages int                     `json:"total_pages"`
	Total      int                     `json:"total"`
	Records    []scoring.DerivedRecord `json:"records"`
	Source     string                  `json:"source"`
	ComputedAt time.Time               `json:"computed_at"`
}

// List returns one page of the ranked view.
// GET /api/v1/rankings?w_mission=&w_force=&w_acq=&sort=&page=&page_size=
func (h *RankingsHandler) List(w http.ResponseWriter, r *http.Request) {
	view, ok := h.recompute(w, r)
	if !ok {
		return
	}

	page, err := intParam(r, "page", 1)
	if err != nil || page < 1 {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	size, err := intParam(r, "page_size", h.defaults.PageSize)
	if err != nil || size < 1 || size > maxPageSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("page_size must be between 1 and %d", maxPageSize))
		return
	}

	writeJSON(w, http.StatusOK, RankingsResponse{
		ViewID:     view.ID,
		Weights:    view.Weights,
		Sort:       view.Sort,
		Page:       page,
		PageSize:   size,
		TotalPages: ranking.PageCount(len(view.Records), size),
		Total:      len(view.Records),
		Records:    ranking.Page(view.Records, page, size),
		Source:     view.Source,
		ComputedAt: view.ComputedAt,
	})
}

// Options lists the sort dropdown entries.
// GET /api/v1/rankings/options
func (h *RankingsHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"options": ranking.Options(),
		"default": h.defaults.Directive.Value(),
		"weights": map[string]float64{
			"min":  scoring.MinWeight,
			"max":  scoring.MaxWeight,
			"step": scoring.WeightStep,
		},
	})
}

// Landscape returns scatter points for every record.
// GET /api/v1/landscape
func (h *RankingsHandler) Landscape(w http.ResponseWriter, r *http.Request) {
	view, ok := h.recompute(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"view_id": view.ID,
		"points":  dashboard.Landscape(view),
	})
}

// Frontier returns the cost/risk/probability Pareto set.
// GET /api/v1/frontier
func (h *RankingsHandler) Frontier(w http.ResponseWriter, r *http.Request) {
	view, ok := h.recompute(w, r)
	if !ok {
		return
	}
	frontier := dashboard.Frontier(view)
	if frontier == nil {
		frontier = []scoring.DerivedRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"view_id":  view.ID,
		"frontier": frontier,
	})
}

// recompute parses weights and sort from the query and builds a view. It
// writes the error response itself and reports false on failure.
func (h *RankingsHandler) recompute(w http.ResponseWriter, r *http.Request) (*dashboard.View, bool) {
	weights, err := h.parseWeights(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	directive := h.defaults.Directive
	if s := r.URL.Query().Get("sort"); s != "" {
		directive, err = ranking.ParseDirective(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
	}

	view, err := h.svc.Recompute(r.Context(), weights, directive)
	if err != nil {
		writeRecomputeError(w, err)
		return nil, false
	}
	return view, true
}

func (h *RankingsHandler) parseWeights(r *http.Request) (scoring.WeightVector, error) {
	weights := h.defaults.Weights
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"w_mission", &weights.Mission},
		{"w_force", &weights.Force},
		{"w_acq", &weights.Acquisition},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return weights, fmt.Errorf("invalid %s", p.name)
		}
		*p.dst = f
	}
	if err := weights.Validate(); err != nil {
		return weights, err
	}
	return weights, nil
}

func writeRecomputeError(w http.ResponseWriter, err error) {
	var invalid *scoring.InvalidRecordError
	var unknown *ranking.UnknownSortFieldError
	switch {
	case errors.Is(err, dashboard.ErrNoDataset):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &unknown):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":       err.Error(),
			"index":       invalid.Index,
			"instance_id": invalid.InstanceID,
			"field":       invalid.Field,
		})
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
