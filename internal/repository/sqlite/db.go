// Package sqlite implements the embedded, region-packaged POI
// repository variant (C2) for when no PostGIS backend is configured.
// It approximates the "region tree or R-tree" sub-linear lookup
// contract (spec.md §4.1) with an H3-cell-bucketed index, since
// modernc.org/sqlite carries no native spatial extension.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/config"
)

type DB struct {
	*sqlx.DB
	logger       *zap.Logger
	h3Resolution int
}

func New(cfg *config.SQLiteConfig, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.Connect("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite region database: %w", err)
	}
	// a single-file embedded database serves one process; modernc.org/sqlite
	// serializes writers internally, so one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to open sqlite region database: %w", err)
	}

	if err := ensureSchema(ctx, db.DB); err != nil {
		return nil, err
	}

	logger.Info("sqlite region database opened",
		zap.String("path", cfg.Path),
		zap.Int("h3_resolution", cfg.H3Resolution),
	)

	return &DB{DB: db, logger: logger, h3Resolution: cfg.H3Resolution}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS pois (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			popularity INTEGER NOT NULL,
			description TEXT,
			estimated_visit_minutes INTEGER,
			osm_id INTEGER,
			metadata TEXT,
			h3_cell TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_pois_h3_cell ON pois(h3_cell);
		CREATE INDEX IF NOT EXISTS idx_pois_lat_lon ON pois(lat, lon);

		CREATE TABLE IF NOT EXISTS region_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

func (db *DB) Close() error {
	db.logger.Info("closing sqlite region database")
	return db.DB.Close()
}

func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}
