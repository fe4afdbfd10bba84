package scoring

import "math"

// Probability bounds applied after the 1 - risk/3 mapping. These are a policy
// choice carried over from the dashboard, not derived from any model.
const (
	ProbabilityFloor   = 0.1
	ProbabilityCeiling = 0.95
	riskScale          = 3.0
)

// Compute derives total risk, probability of success and risk-to-cost ratio
// for every record. Output order and length match the input. Rank is left at
// zero; ranking.Rank assigns it.
//
// The first record with a missing or non-finite numeric field aborts the call
// with an *InvalidRecordError and no partial output.
func Compute(records []Record, weights WeightVector) ([]DerivedRecord, error) {
	out := make([]DerivedRecord, len(records))
	for i := range records {
		d, err := derive(i, &records[i], weights)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func derive(i int, r *Record, w WeightVector) (DerivedRecord, error) {
	cost, err := required(i, r, "total_cost", r.TotalCost)
	if err != nil {
		return DerivedRecord{}, err
	}
	rm, err := required(i, r, "risk_to_mission", r.RiskToMission)
	if err != nil {
		return DerivedRecord{}, err
	}
	rf, err := required(i, r, "risk_to_force", r.RiskToForce)
	if err != nil {
		return DerivedRecord{}, err
	}
	ra, err := required(i, r, "acquisition_risk", r.AcquisitionRisk)
	if err != nil {
		return DerivedRecord{}, err
	}

	total := TotalRisk(rm, rf, ra, w)
	return DerivedRecord{
		InstanceID:           r.InstanceID,
		TotalCost:            cost,
		RiskToMission:        rm,
		RiskToForce:          rf,
		AcquisitionRisk:      ra,
		PlatformCounts:       copyCounts(r.PlatformCounts),
		ForcePackageLabel:    r.ForcePackageLabel,
		TotalRisk:            total,
		ProbabilityOfSuccess: ProbabilityOfSuccess(total),
		RiskToCostRatio:      RiskToCostRatio(total, cost),
	}, nil
}

func required(i int, r *Record, field string, v *float64) (float64, error) {
	if v == nil {
		return 0, &InvalidRecordError{Index: i, InstanceID: r.InstanceID, Field: field, Reason: "is missing"}
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, &InvalidRecordError{Index: i, InstanceID: r.InstanceID, Field: field, Reason: "is not a finite number"}
	}
	return *v, nil
}

// TotalRisk is the weighted sum of the three risk components. No rounding.
func TotalRisk(mission, force, acquisition float64, w WeightVector) float64 {
	return w.Mission*mission + w.Force*force + w.Acquisition*acquisition
}

// ProbabilityOfSuccess maps total risk to 1 - risk/3, clamped to
// [ProbabilityFloor, ProbabilityCeiling] and rounded to 2 places.
func ProbabilityOfSuccess(totalRisk float64) float64 {
	return round(clamp(1-totalRisk/riskScale, ProbabilityFloor, ProbabilityCeiling), 2)
}

// RiskToCostRatio returns totalRisk/cost rounded to 5 places, or +Inf when
// cost is zero or negative.
func RiskToCostRatio(totalRisk, cost float64) float64 {
	if cost <= 0 {
		return math.Inf(1)
	}
	return round(totalRisk/cost, 5)
}

// round rounds half away from zero.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	scaled := v * p
	if math.IsInf(scaled, 0) {
		return v
	}
	return math.Round(scaled) / p
}
