// Package ranking orders derived force-structure records and assigns ranks.
package ranking

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
)

// SortField is the closed set of columns a view can be ordered by.
type SortField int

const (
	FieldTotalRisk SortField = iota + 1
	FieldAcquisitionRisk
	FieldProbabilityOfSuccess
	FieldTotalCost
	FieldRiskToCostRatio
)

type fieldInfo struct {
	name   string // snake_case API name
	column string // dashboard column name
	label  string
	value  func(d *scoring.DerivedRecord) float64
}

var fields = map[SortField]fieldInfo{
	FieldTotalRisk: {"total_risk", "TotalRisk", "Total Risk",
		func(d *scoring.DerivedRecord) float64 { return d.TotalRisk }},
	FieldAcquisitionRisk: {"acquisition_risk", "AcquisitionRisk", "Acquisition Risk",
		func(d *scoring.DerivedRecord) float64 { return d.AcquisitionRisk }},
	FieldProbabilityOfSuccess: {"probability_of_success", "ProbabilityOfSuccess", "Probability of Success",
		func(d *scoring.DerivedRecord) float64 { return d.ProbabilityOfSuccess }},
	FieldTotalCost: {"total_cost", "TotalCost", "Total Cost",
		func(d *scoring.DerivedRecord) float64 { return d.TotalCost }},
	FieldRiskToCostRatio: {"risk_to_cost_ratio", "RiskToCostRatio", "Risk-to-Cost Ratio",
		func(d *scoring.DerivedRecord) float64 { return d.RiskToCostRatio }},
}

// SortFields lists the recognised fields in dropdown order.
func SortFields() []SortField {
	return []SortField{
		FieldTotalRisk, FieldAcquisitionRisk, FieldProbabilityOfSuccess,
		FieldTotalCost, FieldRiskToCostRatio,
	}
}

func (f SortField) String() string {
	if info, ok := fields[f]; ok {
		return info.name
	}
	return fmt.Sprintf("SortField(%d)", int(f))
}

// Valid reports whether f is one of the recognised fields.
func (f SortField) Valid() bool {
	_, ok := fields[f]
	return ok
}

// ParseSortField accepts either the snake_case name ("total_risk") or the
// dashboard column name ("TotalRisk").
func ParseSortField(s string) (SortField, error) {
	for f, info := range fields {
		if s == info.name || s == info.column {
			return f, nil
		}
	}
	return 0, &UnknownSortFieldError{Field: s}
}

// Direction is ascending or descending.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts asc/ascending and desc/descending, case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return 0, fmt.Errorf("unknown sort direction %q", s)
}

// SortDirective is the (field, direction) pair controlling the final order.
type SortDirective struct {
	Field     SortField
	Direction Direction
}

// DefaultDirective is lowest total risk first.
func DefaultDirective() SortDirective {
	return SortDirective{Field: FieldTotalRisk, Direction: Ascending}
}

// NewDirective validates field at construction time.
func NewDirective(field string, dir Direction) (SortDirective, error) {
	f, err := ParseSortField(field)
	if err != nil {
		return SortDirective{}, err
	}
	return SortDirective{Field: f, Direction: dir}, nil
}

// ParseDirective parses "TotalRisk_asc" (dashboard dropdown values) or
// "total_risk:desc". A bare field name sorts ascending.
func ParseDirective(s string) (SortDirective, error) {
	if i := strings.LastIndexAny(s, ":_"); i > 0 {
		if d, err := ParseDirection(s[i+1:]); err == nil {
			return NewDirective(s[:i], d)
		}
	}
	return NewDirective(s, Ascending)
}

// Value returns the dashboard dropdown value, e.g. "TotalRisk_desc".
func (d SortDirective) Value() string {
	info, ok := fields[d.Field]
	if !ok {
		return d.Field.String() + "_" + d.Direction.String()
	}
	return info.column + "_" + d.Direction.String()
}

func (d SortDirective) String() string {
	return d.Field.String() + ":" + d.Direction.String()
}

// Option is one entry of the sort-and-filter dropdown.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Options returns the ten dropdown entries, lowest then highest per field.
func Options() []Option {
	opts := make([]Option, 0, 2*len(fields))
	for _, f := range SortFields() {
		info := fields[f]
		opts = append(opts,
			Option{Label: "Lowest " + info.label, Value: info.column + "_asc"},
			Option{Label: "Highest " + info.label, Value: info.column + "_desc"},
		)
	}
	return opts
}
