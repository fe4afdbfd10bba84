package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/ForceRank/internal/dashboard"
	"github.com/MikeSquared-Agency/ForceRank/internal/metrics"
	"github.com/MikeSquared-Agency/ForceRank/internal/ranking"
	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
)

type staticSource struct {
	records []scoring.Record
	err     error
}

func (s *staticSource) LoadRecords(_ context.Context) ([]scoring.Record, error) {
	return s.records, s.err
}
func (s *staticSource) Name() string { return "static" }

func rec(id string, cost, rm, rf, ra float64) scoring.Record {
	return scoring.Record{
		InstanceID:      id,
		TotalCost:       scoring.Float64(cost),
		RiskToMission:   scoring.Float64(rm),
		RiskToForce:     scoring.Float64(rf),
		AcquisitionRisk: scoring.Float64(ra),
	}
}

func testRecords() []scoring.Record {
	a := rec("A", 100, 1.0, 0.5, 0.0)
	a.PlatformCounts = map[scoring.Platform]int{scoring.PlatformTanker: 2}
	return []scoring.Record{a, rec("B", 0, 2.0, 2.0, 2.0), rec("C", 1234, 0.2, 0.2, 0.2)}
}

func testDefaults() Defaults {
	return Defaults{
		Weights:   scoring.DefaultWeights(),
		Directive: ranking.DefaultDirective(),
		PageSize:  10,
	}
}

func setupTestRouter(t *testing.T, src *staticSource) (http.Handler, *dashboard.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := dashboard.NewService(src, nil, metrics.NewMetrics(), logger)
	if src.err == nil {
		_, err := svc.Reload(context.Background())
		require.NoError(t, err)
	}
	return NewRouter(svc, testDefaults(), "test-token", 0, logger), svc
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestListRankingsDefault(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	w := get(t, router, "/api/v1/rankings")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Sort       string `json:"sort"`
		Total      int    `json:"total"`
		TotalPages int    `json:"total_pages"`
		Records    []struct {
			InstanceID      string      `json:"instance_id"`
			Rank            int         `json:"rank"`
			TotalRisk       float64     `json:"total_risk"`
			RiskToCostRatio interface{} `json:"risk_to_cost_ratio"`
		} `json:"records"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, "TotalRisk_asc", resp.Sort)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Records, 3)
	assert.Equal(t, "C", resp.Records[0].InstanceID)
	assert.Equal(t, "A", resp.Records[1].InstanceID)
	assert.Equal(t, "B", resp.Records[2].InstanceID)
	assert.Equal(t, 3, resp.Records[2].Rank)
	assert.Equal(t, "Infinity", resp.Records[2].RiskToCostRatio)
}

func TestListRankingsWeightsAndSort(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	w := get(t, router, "/api/v1/rankings?w_mission=2.0&w_force=0.1&w_acq=5&sort=TotalCost_desc")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RankingsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, scoring.WeightVector{Mission: 2, Force: 0.1, Acquisition: 5}, resp.Weights)
	assert.Equal(t, "TotalCost_desc", resp.Sort)
	assert.Equal(t, "C", resp.Records[0].InstanceID)
}

func TestListRankingsPaging(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	w := get(t, router, "/api/v1/rankings?page=2&page_size=2")
	require.Equal(t, http.StatusOK, w.Code)

	var resp RankingsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "B", resp.Records[0].InstanceID)
	assert.Equal(t, 3, resp.Records[0].Rank)
}

func TestListRankingsPageFarPastEnd(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	w := get(t, router, "/api/v1/rankings?page=4611686018427387905&page_size=2")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RankingsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Empty(t, resp.Records)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
}

func TestListRankingsBadRequests(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"weight too high", "w_mission=5.1", "out of range"},
		{"weight too low", "w_force=0", "out of range"},
		{"weight off step", "w_acq=1.25", "not a multiple"},
		{"weight not a number", "w_acq=heavy", "invalid w_acq"},
		{"unknown sort", "sort=Cheapness_asc", "unknown sort field"},
		{"bad page", "page=0", "invalid page"},
		{"bad page size", "page_size=-1", "page_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, router, "/api/v1/rankings?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestListRankingsInvalidRecord(t *testing.T) {
	bad := rec("BAD", 10, 1, 1, 1)
	bad.AcquisitionRisk = nil
	router, _ := setupTestRouter(t, &staticSource{records: []scoring.Record{bad}})

	w := get(t, router, "/api/v1/rankings")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "BAD", resp["instance_id"])
	assert.Equal(t, "acquisition_risk", resp["field"])
}

func TestListRankingsNoDataset(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{err: errors.New("unreachable")})

	w := get(t, router, "/api/v1/rankings")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRankingOptions(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	w := get(t, router, "/api/v1/rankings/options")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Options []ranking.Option `json:"options"`
		Default string           `json:"default"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Options, 10)
	assert.Equal(t, "TotalRisk_asc", resp.Default)
}

func TestRecordDetail(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	w := get(t, router, "/api/v1/records/A")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var d dashboard.Detail
	require.NoError(t, json.NewDecoder(w.Body).Decode(&d))
	assert.Equal(t, 2, d.Record.Rank)
	assert.Equal(t, "$100M", d.Fields.TotalCost)
	assert.Equal(t, "50%", d.Fields.ProbabilityOfSuccess)
	assert.Equal(t, []string{"2 × Tanker"}, d.Lines)
	assert.Len(t, d.Composition, 7)
}

func TestRecordDetailRankFollowsSort(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	w := get(t, router, "/api/v1/records/B?sort=RiskToCostRatio_desc")
	require.Equal(t, http.StatusOK, w.Code)

	var d dashboard.Detail
	require.NoError(t, json.NewDecoder(w.Body).Decode(&d))
	assert.Equal(t, 1, d.Record.Rank)
	assert.Equal(t, "inf", d.Fields.RiskToCostRatio)
}

func TestRecordNotFound(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/records/missing").Code)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/records/missing/explain").Code)
}

func TestRecordExplain(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	w := get(t, router, "/api/v1/records/A/explain?w_mission=2")
	require.Equal(t, http.StatusOK, w.Code)

	var e scoring.Explanation
	require.NoError(t, json.NewDecoder(w.Body).Decode(&e))
	assert.Equal(t, "A", e.InstanceID)
	require.Len(t, e.Factors, 3)
	assert.Equal(t, "risk_to_mission", e.Factors[0].Name)
	assert.InDelta(t, 2.0, e.Factors[0].Weighted, 1e-12)
	assert.InDelta(t, 2.5, e.TotalRisk, 1e-12)
}

func TestLandscapeAndFrontier(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	w := get(t, router, "/api/v1/landscape")
	require.Equal(t, http.StatusOK, w.Code)
	var land struct {
		Points []dashboard.Point `json:"points"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&land))
	assert.Len(t, land.Points, 3)

	w = get(t, router, "/api/v1/frontier")
	require.Equal(t, http.StatusOK, w.Code)
	var front struct {
		Frontier []map[string]interface{} `json:"frontier"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&front))
	// Each record trades cost against risk, so none is dominated.
	assert.Len(t, front.Frontier, 3)
}

func TestDatasetInfo(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	w := get(t, router, "/api/v1/dataset")
	require.Equal(t, http.StatusOK, w.Code)
	var resp DatasetResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "static", resp.Source)
	assert.Equal(t, 3, resp.Records)
}

func TestReloadRequiresAdminToken(t *testing.T) {
	router, _ := setupTestRouter(t, &staticSource{records: testRecords()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/dataset/reload", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestReloadWithToken(t *testing.T) {
	src := &staticSource{records: testRecords()}
	router, svc := setupTestRouter(t, src)
	src.records = append(src.records, rec("D", 50, 0, 0, 0))

	req := httptest.NewRequest("POST", "/api/v1/dataset/reload", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.Snapshot().Len() != 4 {
		t.Errorf("expected 4 records after reload, got %d", svc.Snapshot().Len())
	}
}

func TestReloadFailure(t *testing.T) {
	src := &staticSource{records: testRecords()}
	router, svc := setupTestRouter(t, src)
	src.err = errors.New("file vanished")

	req := httptest.NewRequest("POST", "/api/v1/dataset/reload", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 3, svc.Snapshot().Len())
}

func TestHealthEndpoint(t *testing.T) {
	router := NewMetricsRouter(prometheus.NewRegistry())
	w := get(t, router, "/health")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics()
	require.NoError(t, m.Register(reg))
	m.SetDatasetRecords(3)

	w := get(t, NewMetricsRouter(reg), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), metrics.MetricDatasetRecords+" 3"))
}
