// Package metrics provides Prometheus collectors for ranking recomputation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricRecomputationsTotal  = "forcerank_recomputations_total"
	MetricRecomputeDuration    = "forcerank_recompute_duration_seconds"
	MetricRecomputeErrorsTotal = "forcerank_recompute_errors_total"
	MetricDatasetRecords       = "forcerank_dataset_records"
	MetricDatasetReloadsTotal  = "forcerank_dataset_reloads_total"
)

// Error kinds used as the error_kind label.
const (
	ErrorInvalidRecord    = "invalid_record"
	ErrorUnknownSortField = "unknown_sort_field"
	ErrorNoDataset        = "no_dataset"
	ErrorOther            = "other"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics contains Prometheus collectors for the ranking service.
// All operations are thread-safe.
type Metrics struct {
	recomputations  *prometheus.CounterVec
	recomputeTime   prometheus.Histogram
	recomputeErrors *prometheus.CounterVec
	datasetRecords  prometheus.Gauge
	reloads         *prometheus.CounterVec
}

// NewMetrics creates the collectors. They are not registered; call Register.
func NewMetrics() *Metrics {
	return &Metrics{
		recomputations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRecomputationsTotal,
				Help: "Total ranking recomputations by sort field",
			},
			[]string{"sort_field"},
		),
		recomputeTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricRecomputeDuration,
				Help:    "Histogram of compute+rank duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		recomputeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRecomputeErrorsTotal,
				Help: "Total failed recomputations by error kind",
			},
			[]string{"error_kind"},
		),
		datasetRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricDatasetRecords,
				Help: "Number of records in the current dataset snapshot",
			},
		),
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricDatasetReloadsTotal,
				Help: "Total dataset reloads by status",
			},
			[]string{"status"},
		),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all collectors, mainly for tests.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.recomputations,
		m.recomputeTime,
		m.recomputeErrors,
		m.datasetRecords,
		m.reloads,
	}
}

func (m *Metrics) IncRecomputations(sortField string) {
	m.recomputations.WithLabelValues(sortField).Inc()
}

func (m *Metrics) ObserveRecompute(seconds float64) {
	m.recomputeTime.Observe(seconds)
}

func (m *Metrics) IncRecomputeErrors(kind string) {
	m.recomputeErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetDatasetRecords(n int) {
	m.datasetRecords.Set(float64(n))
}

func (m *Metrics) IncReloads(status string) {
	m.reloads.WithLabelValues(status).Inc()
}
