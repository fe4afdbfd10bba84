package api

import (
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/ForceRank/internal/dashboard"
)

type DatasetHandler struct {
	svc *dashboard.Service
}

func NewDatasetHandler(svc *dashboard.Service) *DatasetHandler {
	return &DatasetHandler{svc: svc}
}

type DatasetResponse struct {
	Source   string    `json:"source"`
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Info describes the current snapshot.
// GET /api/v1/dataset
func (h *DatasetHandler) Info(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, dashboard.ErrNoDataset.Error())
		return
	}
	writeJSON(w, http.StatusOK, DatasetResponse{
		Source:   snap.Source(),
		Records:  snap.Len(),
		LoadedAt: snap.LoadedAt(),
	})
}

// Reload re-reads the data source and swaps in a new snapshot.
// POST /api/v1/dataset/reload
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Reload(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, DatasetResponse{
		Source:   snap.Source(),
		Records:  snap.Len(),
		LoadedAt: snap.LoadedAt(),
	})
}
