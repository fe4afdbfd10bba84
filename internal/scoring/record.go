package scoring

import (
	"encoding/json"
	"math"
)

// Platform names a unit type counted in a force package.
type Platform string

const (
	PlatformBomberA   Platform = "BomberA"
	PlatformBomberB   Platform = "BomberB"
	PlatformFighterA  Platform = "FighterA"
	PlatformFighterB  Platform = "FighterB"
	PlatformTanker    Platform = "Tanker"
	PlatformISRDrone  Platform = "ISRDrone"
	PlatformSatellite Platform = "Satellite"
)

// Platforms returns the fixed platform set in display order.
func Platforms() []Platform {
	return []Platform{
		PlatformBomberA, PlatformBomberB,
		PlatformFighterA, PlatformFighterB,
		PlatformTanker, PlatformISRDrone, PlatformSatellite,
	}
}

// Record is one force-structure instance as supplied by the data source.
// Numeric fields are pointers so a missing value can be told apart from zero.
type Record struct {
	InstanceID        string           `json:"instance_id"`
	TotalCost         *float64         `json:"total_cost"`
	RiskToMission     *float64         `json:"risk_to_mission"`
	RiskToForce       *float64         `json:"risk_to_force"`
	AcquisitionRisk   *float64         `json:"acquisition_risk"`
	PlatformCounts    map[Platform]int `json:"platform_counts,omitempty"`
	ForcePackageLabel string           `json:"force_package_label,omitempty"`
}

// DerivedRecord is a Record with the weighted metrics attached.
// Raw values are copied out of the Record, so holding a DerivedRecord never
// aliases the caller's input.
type DerivedRecord struct {
	InstanceID        string           `json:"instance_id"`
	TotalCost         float64          `json:"total_cost"`
	RiskToMission     float64          `json:"risk_to_mission"`
	RiskToForce       float64          `json:"risk_to_force"`
	AcquisitionRisk   float64          `json:"acquisition_risk"`
	PlatformCounts    map[Platform]int `json:"platform_counts,omitempty"`
	ForcePackageLabel string           `json:"force_package_label,omitempty"`

	TotalRisk            float64 `json:"total_risk"`
	ProbabilityOfSuccess float64 `json:"probability_of_success"`
	RiskToCostRatio      float64 `json:"risk_to_cost_ratio"`
	Rank                 int     `json:"rank"`
}

// Float64 returns a pointer to v. Handy for building Records in code.
func Float64(v float64) *float64 { return &v }

func copyCounts(in map[Platform]int) map[Platform]int {
	if in == nil {
		return nil
	}
	out := make(map[Platform]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// MarshalJSON writes an infinite ratio as the string "Infinity", since JSON
// has no number for it.
func (d DerivedRecord) MarshalJSON() ([]byte, error) {
	type plain DerivedRecord
	var ratio interface{} = d.RiskToCostRatio
	if math.IsInf(d.RiskToCostRatio, 1) {
		ratio = "Infinity"
	}
	return json.Marshal(struct {
		plain
		RiskToCostRatio interface{} `json:"risk_to_cost_ratio"`
	}{plain: plain(d), RiskToCostRatio: ratio})
}

// UnmarshalJSON accepts the "Infinity" ratio written by MarshalJSON.
func (d *DerivedRecord) UnmarshalJSON(b []byte) error {
	type plain DerivedRecord
	aux := struct {
		*plain
		RiskToCostRatio json.RawMessage `json:"risk_to_cost_ratio"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	switch string(aux.RiskToCostRatio) {
	case "", "null":
		return nil
	case `"Infinity"`:
		d.RiskToCostRatio = math.Inf(1)
		return nil
	}
	return json.Unmarshal(aux.RiskToCostRatio, &d.RiskToCostRatio)
}
