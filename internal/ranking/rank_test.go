package ranking

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
)

func scenario(t *testing.T) []scoring.DerivedRecord {
	t.Helper()
	out, err := scoring.Compute([]scoring.Record{
		{InstanceID: "A", TotalCost: scoring.Float64(100), RiskToMission: scoring.Float64(1.0), RiskToForce: scoring.Float64(0.5), AcquisitionRisk: scoring.Float64(0)},
		{InstanceID: "B", TotalCost: scoring.Float64(0), RiskToMission: scoring.Float64(2.0), RiskToForce: scoring.Float64(2.0), AcquisitionRisk: scoring.Float64(2.0)},
	}, scoring.DefaultWeights())
	require.NoError(t, err)
	return out
}

func ids(records []scoring.DerivedRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.InstanceID
	}
	return out
}

func TestRankScenarioTotalRiskAscending(t *testing.T) {
	ranked, err := Rank(scenario(t), SortDirective{Field: FieldTotalRisk, Direction: Ascending})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, ids(ranked))
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 1.5, ranked[0].TotalRisk)
	assert.Equal(t, 0.5, ranked[0].ProbabilityOfSuccess)
	assert.Equal(t, 0.015, ranked[0].RiskToCostRatio)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 6.0, ranked[1].TotalRisk)
	assert.Equal(t, 0.1, ranked[1].ProbabilityOfSuccess)
	assert.True(t, math.IsInf(ranked[1].RiskToCostRatio, 1))
}

func TestRankScenarioRatioDescending(t *testing.T) {
	ranked, err := Rank(scenario(t), SortDirective{Field: FieldRiskToCostRatio, Direction: Descending})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, ids(ranked))
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankInfiniteRatioPlacement(t *testing.T) {
	inf := math.Inf(1)
	derived := []scoring.DerivedRecord{
		{InstanceID: "inf1", RiskToCostRatio: inf},
		{InstanceID: "big", RiskToCostRatio: math.MaxFloat64},
		{InstanceID: "zero", RiskToCostRatio: 0},
		{InstanceID: "inf2", RiskToCostRatio: inf},
		{InstanceID: "mid", RiskToCostRatio: 0.02},
	}

	asc, err := Rank(derived, SortDirective{Field: FieldRiskToCostRatio, Direction: Ascending})
	require.NoError(t, err)
	assert.Equal(t, []string{"zero", "mid", "big", "inf1", "inf2"}, ids(asc))

	desc, err := Rank(derived, SortDirective{Field: FieldRiskToCostRatio, Direction: Descending})
	require.NoError(t, err)
	assert.Equal(t, []string{"inf1", "inf2", "big", "mid", "zero"}, ids(desc))
}

func TestRankStableOnTies(t *testing.T) {
	derived := []scoring.DerivedRecord{
		{InstanceID: "p", TotalCost: 10},
		{InstanceID: "q", TotalCost: 5},
		{InstanceID: "r", TotalCost: 10},
		{InstanceID: "s", TotalCost: 5},
		{InstanceID: "t", TotalCost: 10},
	}

	asc, err := Rank(derived, SortDirective{Field: FieldTotalCost, Direction: Ascending})
	require.NoError(t, err)
	assert.Equal(t, []string{"q", "s", "p", "r", "t"}, ids(asc))

	desc, err := Rank(derived, SortDirective{Field: FieldTotalCost, Direction: Descending})
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "r", "t", "q", "s"}, ids(desc))
}

func TestRankEveryField(t *testing.T) {
	derived := []scoring.DerivedRecord{
		{InstanceID: "x", TotalRisk: 3, AcquisitionRisk: 1, ProbabilityOfSuccess: 0.1, TotalCost: 300, RiskToCostRatio: 0.01},
		{InstanceID: "y", TotalRisk: 1, AcquisitionRisk: 3, ProbabilityOfSuccess: 0.67, TotalCost: 100, RiskToCostRatio: 0.03},
		{InstanceID: "z", TotalRisk: 2, AcquisitionRisk: 2, ProbabilityOfSuccess: 0.33, TotalCost: 200, RiskToCostRatio: 0.02},
	}
	tests := []struct {
		field SortField
		want  []string
	}{
		{FieldTotalRisk, []string{"y", "z", "x"}},
		{FieldAcquisitionRisk, []string{"x", "z", "y"}},
		{FieldProbabilityOfSuccess, []string{"x", "z", "y"}},
		{FieldTotalCost, []string{"y", "z", "x"}},
		{FieldRiskToCostRatio, []string{"x", "z", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			ranked, err := Rank(derived, SortDirective{Field: tt.field, Direction: Ascending})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(ranked))
		})
	}
}

func TestRankAssignsContiguousRanks(t *testing.T) {
	derived := make([]scoring.DerivedRecord, 25)
	for i := range derived {
		derived[i] = scoring.DerivedRecord{InstanceID: string(rune('a' + i)), TotalRisk: float64(i % 4), Rank: 99}
	}
	ranked, err := Rank(derived, SortDirective{Field: FieldTotalRisk, Direction: Descending})
	require.NoError(t, err)
	require.Len(t, ranked, len(derived))
	for i, r := range ranked {
		if r.Rank != i+1 {
			t.Errorf("position %d has rank %d", i, r.Rank)
		}
	}
}

func TestRankDoesNotTouchInput(t *testing.T) {
	derived := scenario(t)
	before := make([]scoring.DerivedRecord, len(derived))
	copy(before, derived)

	_, err := Rank(derived, SortDirective{Field: FieldRiskToCostRatio, Direction: Descending})
	require.NoError(t, err)
	if !reflect.DeepEqual(before, derived) {
		t.Error("Rank reordered or changed its input")
	}
}

func TestRankDeterministic(t *testing.T) {
	d := SortDirective{Field: FieldProbabilityOfSuccess, Direction: Descending}
	first, err := Rank(scenario(t), d)
	require.NoError(t, err)
	second, err := Rank(scenario(t), d)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRankUnknownField(t *testing.T) {
	out, err := Rank(scenario(t), SortDirective{Field: SortField(42)})
	assert.Nil(t, out)
	var unknown *UnknownSortFieldError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "SortField(42)", unknown.Field)
}

func TestRankEmpty(t *testing.T) {
	ranked, err := Rank(nil, DefaultDirective())
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestPage(t *testing.T) {
	derived := make([]scoring.DerivedRecord, 23)
	for i := range derived {
		derived[i].Rank = i + 1
	}

	first := Page(derived, 1, 10)
	assert.Len(t, first, 10)
	assert.Equal(t, 1, first[0].Rank)

	last := Page(derived, 3, 10)
	assert.Len(t, last, 3)
	assert.Equal(t, 21, last[0].Rank)

	assert.Empty(t, Page(derived, 4, 10))
	assert.Len(t, Page(derived, 0, 10), 10, "page below 1 is treated as page 1")
	assert.Len(t, Page(derived, 2, 0), 23, "non-positive size returns all")

	assert.Equal(t, 3, PageCount(23, 10))
	assert.Equal(t, 1, PageCount(0, 10))
	assert.Equal(t, 2, PageCount(20, 10))
}

func TestPageHugeValues(t *testing.T) {
	derived := make([]scoring.DerivedRecord, 3)

	assert.Empty(t, Page(derived, 4611686018427387905, 2))
	assert.Empty(t, Page(derived, math.MaxInt, math.MaxInt))
	assert.Len(t, Page(derived, 1, math.MaxInt), 3)
	assert.Empty(t, Page(nil, 1, 2))
	assert.Equal(t, 1, PageCount(3, math.MaxInt))
}

func TestRankDoesNotShareCompositionMaps(t *testing.T) {
	derived := []scoring.DerivedRecord{
		{InstanceID: "x", TotalRisk: 2, PlatformCounts: map[scoring.Platform]int{scoring.PlatformTanker: 4}},
		{InstanceID: "y", TotalRisk: 1},
	}
	ranked, err := Rank(derived, DefaultDirective())
	require.NoError(t, err)
	require.Equal(t, "x", ranked[1].InstanceID)

	ranked[1].PlatformCounts[scoring.PlatformTanker] = 99
	assert.Equal(t, 4, derived[0].PlatformCounts[scoring.PlatformTanker])
	assert.Nil(t, ranked[0].PlatformCounts)
}
