// Package postgres implements the PostGIS-backed POI repository
// variant (C2), geography-indexed for sub-linear radius/bbox lookups.
package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/config"
)

// DB wraps a bounded connection pool to the PostGIS-backed POI store.
// Repository operations await a permit on this pool rather than ever
// opening ad-hoc connections (spec.md §5).
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to poi database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping poi database: %w", err)
	}

	logger.Info("PostGIS POI database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
	)

	return &DB{DB: db, logger: logger}, nil
}

func (db *DB) Close() error {
	db.logger.Info("closing PostGIS POI database connection")
	return db.DB.Close()
}

func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}
