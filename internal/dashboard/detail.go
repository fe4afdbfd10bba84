package dashboard

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
)

// PlatformCount is one bar of the composition chart.
type PlatformCount struct {
	Platform scoring.Platform `json:"platform"`
	Count    int              `json:"count"`
}

// DetailFields are the display strings of the detail pane.
type DetailFields struct {
	Title                string `json:"title"`
	TotalCost            string `json:"total_cost"`
	ProbabilityOfSuccess string `json:"probability_of_success"`
	TotalRisk            string `json:"total_risk"`
	RiskToCostRatio      string `json:"risk_to_cost_ratio"`
}

// Detail is the drill-down for one selected record.
type Detail struct {
	Record      scoring.DerivedRecord `json:"record"`
	Composition []PlatformCount       `json:"composition"`
	Lines       []string              `json:"lines"`
	Fields      DetailFields          `json:"fields"`
	Tooltip     string                `json:"tooltip,omitempty"`
}

// Select returns the detail for the record at the given 1-based rank.
func Select(view *View, rank int) (*Detail, error) {
	if view == nil || rank < 1 || rank > len(view.Records) {
		return nil, fmt.Errorf("rank %d: %w", rank, ErrNotFound)
	}
	return NewDetail(view.Records[rank-1]), nil
}

// Find returns the detail for the first record with the given instance id.
func Find(view *View, id string) (*Detail, error) {
	if view != nil {
		for i := range view.Records {
			if view.Records[i].InstanceID == id {
				return NewDetail(view.Records[i]), nil
			}
		}
	}
	return nil, fmt.Errorf("instance %q: %w", id, ErrNotFound)
}

func NewDetail(d scoring.DerivedRecord) *Detail {
	comp := Composition(d)
	lines := make([]string, 0, len(comp))
	for _, pc := range comp {
		if pc.Count > 0 {
			lines = append(lines, fmt.Sprintf("%d × %s", pc.Count, pc.Platform))
		}
	}
	return &Detail{
		Record:      d,
		Composition: comp,
		Lines:       lines,
		Fields: DetailFields{
			Title:                "Force Package: " + d.InstanceID,
			TotalCost:            FormatCost(d.TotalCost),
			ProbabilityOfSuccess: FormatProbability(d.ProbabilityOfSuccess),
			TotalRisk:            fmt.Sprintf("%.2f", d.TotalRisk),
			RiskToCostRatio:      FormatRatio(d.RiskToCostRatio),
		},
		Tooltip: d.ForcePackageLabel,
	}
}

// Composition lists every platform in display order, zero counts included.
func Composition(d scoring.DerivedRecord) []PlatformCount {
	platforms := scoring.Platforms()
	out := make([]PlatformCount, len(platforms))
	for i, p := range platforms {
		out[i] = PlatformCount{Platform: p, Count: d.PlatformCounts[p]}
	}
	return out
}

// FormatCost renders millions with thousands separators, e.g. "$1,234M".
func FormatCost(cost float64) string {
	return "$" + humanize.Comma(int64(math.Round(cost))) + "M"
}

// FormatProbability renders a probability as a whole percentage.
func FormatProbability(p float64) string {
	return fmt.Sprintf("%.0f%%", p*100)
}

// FormatRatio renders five decimals, or "inf" for a zero-cost record.
func FormatRatio(r float64) string {
	if math.IsInf(r, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.5f", r)
}
