// Package dashboard wires the metric engine and ranking view into the
// operations the HTTP API and CLI expose: recompute, drill-down, landscape
// and reload.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/MikeSquared-Agency/ForceRank/internal/dataset"
	"github.com/MikeSquared-Agency/ForceRank/internal/hermes"
	"github.com/MikeSquared-Agency/ForceRank/internal/metrics"
	"github.com/MikeSquared-Agency/ForceRank/internal/ranking"
	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
	"github.com/MikeSquared-Agency/ForceRank/internal/store"
	"github.com/MikeSquared-Agency/ForceRank/internal/tracing"
)

var (
	ErrNoDataset = errors.New("dataset not loaded")
	ErrNotFound  = errors.New("record not found")
)

// View is one ranked recomputation of the current snapshot.
type View struct {
	ID         uuid.UUID               `json:"id"`
	Weights    scoring.WeightVector    `json:"weights"`
	Directive  ranking.SortDirective   `json:"-"`
	Sort       string                  `json:"sort"`
	Records    []scoring.DerivedRecord `json:"records"`
	Source     string                  `json:"source"`
	ComputedAt time.Time               `json:"computed_at"`
}

// Service holds the current snapshot and recomputes views over it. The
// snapshot pointer is swapped wholesale on reload; readers never see a
// partially loaded dataset.
type Service struct {
	snapshot atomic.Pointer[dataset.Snapshot]
	source   store.Source
	hermes   hermes.Client
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a Service. h may be nil when events are disabled.
func NewService(src store.Source, h hermes.Client, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		source:  src,
		hermes:  h,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Snapshot returns the current dataset, or nil before the first load.
func (s *Service) Snapshot() *dataset.Snapshot {
	return s.snapshot.Load()
}

// Reload reads the data source and replaces the snapshot. On failure the
// previous snapshot stays in place.
func (s *Service) Reload(ctx context.Context) (snap *dataset.Snapshot, err error) {
	ctx, end := tracing.StartSpan(ctx, "dashboard.reload",
		attribute.String("source", s.source.Name()))
	defer func() { end(err) }()

	records, err := s.source.LoadRecords(ctx)
	if err != nil {
		s.metrics.IncReloads(metrics.StatusFailure)
		s.logger.Error("dataset reload failed", "source", s.source.Name(), "error", err)
		s.publish(ctx, hermes.SubjectDatasetFailed, hermes.DatasetFailedEvent{
			EventID:   uuid.NewString(),
			Source:    s.source.Name(),
			Error:     err.Error(),
			Timestamp: s.now().UTC(),
		})
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	snap = dataset.NewSnapshot(records, s.source.Name(), s.now().UTC())
	s.snapshot.Store(snap)
	s.metrics.IncReloads(metrics.StatusSuccess)
	s.metrics.SetDatasetRecords(snap.Len())
	tracing.SetAttributes(ctx, attribute.Int("records", snap.Len()))

	s.logger.Info("dataset loaded", "source", snap.Source(), "records", snap.Len())
	s.publish(ctx, hermes.SubjectDatasetReloaded, hermes.DatasetReloadedEvent{
		EventID:     uuid.NewString(),
		Source:      snap.Source(),
		RecordCount: snap.Len(),
		Timestamp:   snap.LoadedAt(),
	})
	return snap, nil
}

// Recompute derives and ranks every record of the current snapshot under
// the given weights and directive. The snapshot itself is never modified.
func (s *Service) Recompute(ctx context.Context, weights scoring.WeightVector, directive ranking.SortDirective) (view *View, err error) {
	ctx, end := tracing.StartSpan(ctx, "dashboard.recompute",
		attribute.String("weights", weights.String()),
		attribute.String("sort", directive.String()),
	)
	defer func() { end(err) }()

	snap := s.snapshot.Load()
	if snap == nil {
		s.metrics.IncRecomputeErrors(metrics.ErrorNoDataset)
		return nil, ErrNoDataset
	}

	start := time.Now()
	derived, err := scoring.Compute(snap.Records(), weights)
	if err != nil {
		s.metrics.IncRecomputeErrors(errorKind(err))
		return nil, err
	}
	ranked, err := ranking.Rank(derived, directive)
	if err != nil {
		s.metrics.IncRecomputeErrors(errorKind(err))
		return nil, err
	}
	elapsed := time.Since(start)

	s.metrics.IncRecomputations(directive.Field.String())
	s.metrics.ObserveRecompute(elapsed.Seconds())

	view = &View{
		ID:         uuid.New(),
		Weights:    weights,
		Directive:  directive,
		Sort:       directive.Value(),
		Records:    ranked,
		Source:     snap.Source(),
		ComputedAt: s.now().UTC(),
	}

	evt := hermes.RankingsRecomputedEvent{
		EventID: view.ID.String(),
		Weights: hermes.Weights{
			Mission:     weights.Mission,
			Force:       weights.Force,
			Acquisition: weights.Acquisition,
		},
		Sort:        view.Sort,
		RecordCount: len(ranked),
		DurationMs:  float64(elapsed.Microseconds()) / 1000,
		Timestamp:   view.ComputedAt,
	}
	if len(ranked) > 0 {
		evt.TopInstanceID = ranked[0].InstanceID
	}
	s.publish(ctx, hermes.SubjectRankingsRecomputed, evt)

	s.logger.Debug("rankings recomputed",
		"view_id", view.ID,
		"weights", weights.String(),
		"sort", view.Sort,
		"records", len(ranked),
	)
	return view, nil
}

// Subscribe registers the reload trigger on the event bus. It is a no-op
// when events are disabled.
func (s *Service) Subscribe(ctx context.Context, timeout time.Duration) error {
	if s.hermes == nil {
		return nil
	}
	return s.hermes.SubscribeReload(func(req hermes.DatasetReloadRequest) {
		rctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		s.logger.Info("dataset reload requested",
			"requested_by", req.RequestedBy,
			"reason", req.Reason,
		)
		if _, err := s.Reload(rctx); err != nil {
			s.logger.Warn("event-triggered reload failed", "requested_by", req.RequestedBy, "error", err)
		}
	})
}

func (s *Service) publish(ctx context.Context, subject string, evt hermes.Event) {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Publish(ctx, subject, evt); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func errorKind(err error) string {
	var invalid *scoring.InvalidRecordError
	var unknown *ranking.UnknownSortFieldError
	switch {
	case errors.As(err, &invalid):
		return metrics.ErrorInvalidRecord
	case errors.As(err, &unknown):
		return metrics.ErrorUnknownSortField
	case errors.Is(err, ErrNoDataset):
		return metrics.ErrorNoDataset
	default:
		return metrics.ErrorOther
	}
}
