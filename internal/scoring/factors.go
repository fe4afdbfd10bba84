package scoring

// FactorResult captures one risk component's contribution to total risk.
type FactorResult struct {
	Name     string  `json:"name"`
	Raw      float64 `json:"raw"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Share    float64 `json:"share"` // fraction of total risk, 0 when total is 0
}

// Explanation is the weighted breakdown behind one derived record.
type Explanation struct {
	InstanceID           string         `json:"instance_id"`
	Weights              WeightVector   `json:"weights"`
	Factors              []FactorResult `json:"factors"`
	TotalRisk            float64        `json:"total_risk"`
	ProbabilityOfSuccess float64        `json:"probability_of_success"`
	ProbabilityClamped   bool           `json:"probability_clamped"`
}

// Explain breaks a derived record's total risk back into its weighted
// components. The weights must be the ones the record was computed with.
func Explain(d DerivedRecord, w WeightVector) Explanation {
	factors := []FactorResult{
		{Name: "risk_to_mission", Raw: d.RiskToMission, Weight: w.Mission},
		{Name: "risk_to_force", Raw: d.RiskToForce, Weight: w.Force},
		{Name: "acquisition_risk", Raw: d.AcquisitionRisk, Weight: w.Acquisition},
	}

	var total float64
	for i := range factors {
		factors[i].Weighted = factors[i].Raw * factors[i].Weight
		total += factors[i].Weighted
	}
	if total != 0 {
		for i := range factors {
			factors[i].Share = factors[i].Weighted / total
		}
	}

	unclamped := 1 - d.TotalRisk/riskScale
	return Explanation{
		InstanceID:           d.InstanceID,
		Weights:              w,
		Factors:              factors,
		TotalRisk:            d.TotalRisk,
		ProbabilityOfSuccess: d.ProbabilityOfSuccess,
		ProbabilityClamped:   unclamped < ProbabilityFloor || unclamped > ProbabilityCeiling,
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
