package store

import (
	"context"
	"fmt"
)

const (
	KindCSV      = "csv"
	KindPostgres = "postgres"
)

// Open returns the Source for kind and a func that releases it.
func Open(ctx context.Context, kind, csvPath, databaseURL string) (Source, func(), error) {
	switch kind {
	case KindCSV:
		return NewCSVSource(csvPath), func() {}, nil
	case KindPostgres:
		db, err := NewPostgresStore(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown dataset source %q", kind)
}
