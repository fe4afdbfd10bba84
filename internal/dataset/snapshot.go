// Package dataset holds the immutable in-memory copy of the force-structure
// records every recomputation reads from.
package dataset

import (
	"time"

	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
)

// Snapshot is a fully materialised, read-only set of records. A new Snapshot
// replaces the old one on reload; an existing Snapshot never changes, so it
// can be shared across goroutines without locking.
type Snapshot struct {
	records  []scoring.Record
	source   string
	loadedAt time.Time
}

// NewSnapshot deep-copies records so later changes by the caller are not
// visible through the snapshot.
func NewSnapshot(records []scoring.Record, source string, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		records:  make([]scoring.Record, len(records)),
		source:   source,
		loadedAt: loadedAt,
	}
	for i, r := range records {
		s.records[i] = cloneRecord(r)
	}
	return s
}

// Records returns a deep copy of the records in load order.
func (s *Snapshot) Records() []scoring.Record {
	out := make([]scoring.Record, len(s.records))
	for i, r := range s.records {
		out[i] = cloneRecord(r)
	}
	return out
}

func (s *Snapshot) Len() int            { return len(s.records) }
func (s *Snapshot) Source() string      { return s.source }
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

func cloneRecord(r scoring.Record) scoring.Record {
	out := r
	out.TotalCost = cloneFloat(r.TotalCost)
	out.RiskToMission = cloneFloat(r.RiskToMission)
	out.RiskToForce = cloneFloat(r.RiskToForce)
	out.AcquisitionRisk = cloneFloat(r.AcquisitionRisk)
	if r.PlatformCounts != nil {
		out.PlatformCounts = make(map[scoring.Platform]int, len(r.PlatformCounts))
		for k, v := range r.PlatformCounts {
			out.PlatformCounts[k] = v
		}
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
