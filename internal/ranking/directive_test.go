package ranking

import (
	"errors"
	"testing"
)

func TestParseSortField(t *testing.T) {
	tests := []struct {
		in   string
		want SortField
	}{
		{"total_risk", FieldTotalRisk},
		{"TotalRisk", FieldTotalRisk},
		{"acquisition_risk", FieldAcquisitionRisk},
		{"ProbabilityOfSuccess", FieldProbabilityOfSuccess},
		{"total_cost", FieldTotalCost},
		{"RiskToCostRatio", FieldRiskToCostRatio},
	}
	for _, tt := range tests {
		got, err := ParseSortField(tt.in)
		if err != nil {
			t.Errorf("ParseSortField(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSortField(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSortFieldUnknown(t *testing.T) {
	for _, in := range []string{"", "risk_to_mission", "InstanceID", "totalrisk"} {
		_, err := ParseSortField(in)
		var unknown *UnknownSortFieldError
		if !errors.As(err, &unknown) {
			t.Errorf("ParseSortField(%q): expected UnknownSortFieldError, got %v", in, err)
			continue
		}
		if unknown.Field != in {
			t.Errorf("expected field %q in error, got %q", in, unknown.Field)
		}
	}
}

func TestParseDirective(t *testing.T) {
	tests := []struct {
		in    string
		field SortField
		dir   Direction
	}{
		{"TotalRisk_asc", FieldTotalRisk, Ascending},
		{"TotalRisk_desc", FieldTotalRisk, Descending},
		{"RiskToCostRatio_desc", FieldRiskToCostRatio, Descending},
		{"total_cost:desc", FieldTotalCost, Descending},
		{"probability_of_success:ascending", FieldProbabilityOfSuccess, Ascending},
		{"acquisition_risk_DESC", FieldAcquisitionRisk, Descending},
		{"total_risk", FieldTotalRisk, Ascending},
		{"TotalCost", FieldTotalCost, Ascending},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDirective(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Field != tt.field || d.Direction != tt.dir {
				t.Errorf("got %v, want %v:%v", d, tt.field, tt.dir)
			}
		})
	}
}

func TestParseDirectiveUnknownField(t *testing.T) {
	for _, in := range []string{"Bogus_asc", "risk_to_mission:desc", "nothing"} {
		_, err := ParseDirective(in)
		var unknown *UnknownSortFieldError
		if !errors.As(err, &unknown) {
			t.Errorf("ParseDirective(%q): expected UnknownSortFieldError, got %v", in, err)
		}
	}
}

func TestDirectiveValueRoundTrip(t *testing.T) {
	for _, opt := range Options() {
		d, err := ParseDirective(opt.Value)
		if err != nil {
			t.Errorf("option %q does not parse: %v", opt.Value, err)
			continue
		}
		if d.Value() != opt.Value {
			t.Errorf("Value() = %q, want %q", d.Value(), opt.Value)
		}
	}
}

func TestOptions(t *testing.T) {
	opts := Options()
	if len(opts) != 10 {
		t.Fatalf("expected 10 options, got %d", len(opts))
	}
	if opts[0].Label != "Lowest Total Risk" || opts[0].Value != "TotalRisk_asc" {
		t.Errorf("unexpected first option: %+v", opts[0])
	}
	if opts[9].Label != "Highest Risk-to-Cost Ratio" || opts[9].Value != "RiskToCostRatio_desc" {
		t.Errorf("unexpected last option: %+v", opts[9])
	}
}

func TestSortFieldValid(t *testing.T) {
	for _, f := range SortFields() {
		if !f.Valid() {
			t.Errorf("%v should be valid", f)
		}
	}
	if SortField(0).Valid() {
		t.Error("zero SortField should not be valid")
	}
}

func TestDefaultDirective(t *testing.T) {
	d := DefaultDirective()
	if d.Value() != "TotalRisk_asc" {
		t.Errorf("expected TotalRisk_asc, got %s", d.Value())
	}
	if d.String() != "total_risk:asc" {
		t.Errorf("expected total_risk:asc, got %s", d.String())
	}
}
