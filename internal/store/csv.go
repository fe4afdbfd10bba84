package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
)

// Column names in the normalised force-structure export.
const (
	ColInstanceID      = "InstanceID"
	ColTotalCost       = "TotalCost"
	ColRiskToMission   = "RiskToMission"
	ColRiskToForce     = "RiskToForce"
	ColAcquisitionRisk = "AcquisitionRisk"
	ColForcePackage    = "ForcePackage"
)

var _ Source = (*CSVSource)(nil)

// CSVSource reads records from a CSV file with a header row. Extra columns are
// ignored; platform columns are matched by platform name.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string { return "csv:" + s.path }

func (s *CSVSource) LoadRecords(ctx context.Context) ([]scoring.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(ctx, f)
}

// ReadCSV parses records from r. Empty numeric cells become nil and cells that
// do not parse become NaN; scoring.Compute reports both as invalid records.
func ReadCSV(ctx context.Context, r io.Reader) ([]scoring.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := cols[ColInstanceID]; !ok {
		return nil, fmt.Errorf("dataset missing %s column", ColInstanceID)
	}

	var records []scoring.Record
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := scoring.Record{
			InstanceID:        cell(ColInstanceID),
			TotalCost:         parseNumber(cell(ColTotalCost)),
			RiskToMission:     parseNumber(cell(ColRiskToMission)),
			RiskToForce:       parseNumber(cell(ColRiskToForce)),
			AcquisitionRisk:   parseNumber(cell(ColAcquisitionRisk)),
			ForcePackageLabel: cell(ColForcePackage),
		}
		for _, p := range scoring.Platforms() {
			n := parseNumber(cell(string(p)))
			if n == nil || math.IsNaN(*n) || *n < 0 {
				continue
			}
			if rec.PlatformCounts == nil {
				rec.PlatformCounts = make(map[scoring.Platform]int)
			}
			rec.PlatformCounts[p] = int(*n)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		v = math.NaN()
	}
	return &v
}
