package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
)

var _ Store = (*PostgresStore)(nil)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Name() string { return "postgres:force_structures" }

const schemaSQL = `
CREATE TABLE IF NOT EXISTS force_structures (
	seq               BIGSERIAL PRIMARY KEY,
	instance_id       TEXT NOT NULL UNIQUE,
	total_cost        DOUBLE PRECISION,
	risk_to_mission   DOUBLE PRECISION,
	risk_to_force     DOUBLE PRECISION,
	acquisition_risk  DOUBLE PRECISION,
	platform_counts   JSONB NOT NULL DEFAULT '{}'::jsonb,
	force_package     TEXT
)`

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const recordColumns = `instance_id, total_cost, risk_to_mission, risk_to_force,
	acquisition_risk, platform_counts, force_package`

// LoadRecords returns every row in insertion order. Numeric columns may be
// NULL; those stay nil and are rejected later by scoring.Compute.
func (s *PostgresStore) LoadRecords(ctx context.Context) ([]scoring.Record, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+recordColumns+` FROM force_structures ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query force structures: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// UpsertRecords inserts or updates records by instance id inside one
// transaction. Existing rows keep their original position.
func (s *PostgresStore) UpsertRecords(ctx context.Context, records []scoring.Record) (int, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, r := range records {
		counts, err := json.Marshal(r.PlatformCounts)
		if err != nil {
			return 0, fmt.Errorf("encode platform counts for %s: %w", r.InstanceID, err)
		}
		if r.PlatformCounts == nil {
			counts = []byte("{}")
		}
		batch.Queue(`
			INSERT INTO force_structures (`+recordColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (instance_id) DO UPDATE SET
				total_cost = EXCLUDED.total_cost,
				risk_to_mission = EXCLUDED.risk_to_mission,
				risk_to_force = EXCLUDED.risk_to_force,
				acquisition_risk = EXCLUDED.acquisition_risk,
				platform_counts = EXCLUDED.platform_counts,
				force_package = EXCLUDED.force_package`,
			r.InstanceID, r.TotalCost, r.RiskToMission, r.RiskToForce,
			r.AcquisitionRisk, counts, r.ForcePackageLabel,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for _, r := range records {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("upsert %s: %w", r.InstanceID, err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}

func scanRecords(rows pgx.Rows) ([]scoring.Record, error) {
	var records []scoring.Record
	for rows.Next() {
		var r scoring.Record
		var countsJSON []byte
		var label sql.NullString
		if err := rows.Scan(
			&r.InstanceID, &r.TotalCost, &r.RiskToMission, &r.RiskToForce,
			&r.AcquisitionRisk, &countsJSON, &label,
		); err != nil {
			return nil, err
		}
		if label.Valid {
			r.ForcePackageLabel = label.String
		}
		if len(countsJSON) > 0 {
			if err := json.Unmarshal(countsJSON, &r.PlatformCounts); err != nil {
				return nil, fmt.Errorf("decode platform counts for %s: %w", r.InstanceID, err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
