package dashboard

import "github.com/MikeSquared-Agency/ForceRank/internal/scoring"

// Point is one marker of the cost/risk/probability scatter plot.
type Point struct {
	InstanceID           string  `json:"instance_id"`
	TotalCost            float64 `json:"total_cost"`
	TotalRisk            float64 `json:"total_risk"`
	ProbabilityOfSuccess float64 `json:"probability_of_success"`
	Rank                 int     `json:"rank"`
	Label                string  `json:"label,omitempty"`
}

// Landscape returns one point per record in view order.
func Landscape(view *View) []Point {
	if view == nil {
		return nil
	}
	points := make([]Point, len(view.Records))
	for i, d := range view.Records {
		points[i] = Point{
			InstanceID:           d.InstanceID,
			TotalCost:            d.TotalCost,
			TotalRisk:            d.TotalRisk,
			ProbabilityOfSuccess: d.ProbabilityOfSuccess,
			Rank:                 d.Rank,
			Label:                d.ForcePackageLabel,
		}
	}
	return points
}

// Frontier returns the non-dominated records of the view, in view order.
func Frontier(view *View) []scoring.DerivedRecord {
	if view == nil {
		return nil
	}
	return scoring.ComputeFrontier(view.Records)
}

// Explain returns the weighted breakdown for one record of the view.
func Explain(view *View, id string) (*scoring.Explanation, error) {
	d, err := Find(view, id)
	if err != nil {
		return nil, err
	}
	e := scoring.Explain(d.Record, view.Weights)
	return &e, nil
}
