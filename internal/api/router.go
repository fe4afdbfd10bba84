package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/ForceRank/internal/dashboard"
)

func NewRouter(svc *dashboard.Service, d Defaults, adminToken string, rateLimit int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(rateLimit))

	rankings := NewRankingsHandler(svc, d)
	ds := NewDatasetHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/rankings", rankings.List)
		r.Get("/rankings/options", rankings.Options)
		r.Get("/records/{id}", rankings.Detail)
		r.Get("/records/{id}/explain", rankings.Explain)
		r.Get("/landscape", rankings.Landscape)
		r.Get("/frontier", rankings.Frontier)
		r.Get("/dataset", ds.Info)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Post("/dataset/reload", ds.Reload)
		})
	})

	return r
}

// NewMetricsRouter serves /health and /metrics from the given gatherer.
func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
