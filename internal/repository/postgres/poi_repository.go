package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/domain"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
	"github.com/triploop/routecore/internal/pkg/errors"
	"github.com/triploop/routecore/internal/pkg/geo"
)

// queryTimeout bounds every repository call per spec.md §5; an exceeded
// timeout is a hard failure for the repository (unlike the directions
// client, where timeouts are retriable).
const queryTimeout = 5 * time.Second

type poiRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPOIRepository(db *DB) domainrepo.POIRepository {
	return &poiRepository{db: db.DB, logger: db.logger}
}

type poiRow struct {
	ID                    uuid.UUID      `db:"id"`
	Name                  string         `db:"name"`
	Category              string         `db:"category"`
	Lat                   float64        `db:"lat"`
	Lon                   float64        `db:"lon"`
	Popularity            int            `db:"popularity"`
	Description           sql.NullString `db:"description"`
	EstimatedVisitMinutes sql.NullInt32  `db:"estimated_visit_minutes"`
	OSMId                 sql.NullInt64  `db:"osm_id"`
	Metadata              []byte         `db:"metadata"`
	CreatedAt             time.Time      `db:"created_at"`
}

func (r poiRow) toDomain() (domain.POI, error) {
	loc, err := geo.NewCoordinates(r.Lat, r.Lon)
	if err != nil {
		return domain.POI{}, err
	}
	poi := domain.POI{
		ID:         r.ID,
		Name:       r.Name,
		Category:   domain.PoiCategory(r.Category),
		Location:   loc,
		Popularity: r.Popularity,
		CreatedAt:  r.CreatedAt,
	}
	if r.Description.Valid {
		d := r.Description.String
		poi.Description = &d
	}
	if r.EstimatedVisitMinutes.Valid {
		m := int(r.EstimatedVisitMinutes.Int32)
		poi.EstimatedVisitMinutes = &m
	}
	if r.OSMId.Valid {
		id := r.OSMId.Int64
		poi.OSMId = &id
	}
	if len(r.Metadata) > 0 {
		var meta map[string]string
		if err := json.Unmarshal(r.Metadata, &meta); err == nil {
			poi.Metadata = meta
		}
	}
	return poi, nil
}

// FindWithinRadius orders by ascending ST_Distance and applies a true
// great-circle filter via ST_DWithin on the geography cast, never an
// overapproximated bounding envelope alone (spec.md §4.1).
func (r *poiRepository) FindWithinRadius(
	ctx context.Context,
	center geo.Coordinates,
	radius geo.RadiusMeters,
	categories []domain.PoiCategory,
	limit int,
) ([]domain.POI, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		WITH origin AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS geom
		)
		SELECT
			p.id, p.name, p.category, p.lat, p.lon, p.popularity,
			p.description, p.estimated_visit_minutes, p.osm_id, p.metadata, p.created_at,
			ST_Distance(p.location, origin.geom) AS distance
		FROM pois p, origin
		WHERE ST_DWithin(p.location, origin.geom, $3)
	`
	args := []interface{}{center.Lon(), center.Lat(), float64(radius)}
	argIdx := 4

	if len(categories) > 0 {
		query += fmt.Sprintf(" AND p.category = ANY($%d)", argIdx)
		args = append(args, pq.Array(categoryStrings(categories)))
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY distance ASC, p.id LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("find_within_radius failed", zap.Error(err))
		return nil, errors.ErrStorageError
	}
	defer rows.Close()

	var result []domain.POI
	for rows.Next() {
		var row poiRow
		var distance float64
		if err := rows.Scan(
			&row.ID, &row.Name, &row.Category, &row.Lat, &row.Lon, &row.Popularity,
			&row.Description, &row.EstimatedVisitMinutes, &row.OSMId, &row.Metadata, &row.CreatedAt,
			&distance,
		); err != nil {
			r.logger.Warn("failed to scan poi row", zap.Error(err))
			continue
		}
		poi, err := row.toDomain()
		if err != nil {
			r.logger.Warn("skipping poi row with invalid coordinates", zap.Error(err))
			continue
		}
		result = append(result, poi)
	}
	return result, nil
}

// FindInBbox is stably ordered by id within a call; ordering across
// calls is implementation-defined per spec.md §4.1.
func (r *poiRepository) FindInBbox(
	ctx context.Context,
	bbox geo.BoundingBox,
	categories []domain.PoiCategory,
	limit int,
) ([]domain.POI, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, name, category, lat, lon, popularity,
			description, estimated_visit_minutes, osm_id, metadata, created_at
		FROM pois
		WHERE lat BETWEEN $1 AND $2 AND lon BETWEEN $3 AND $4
	`
	args := []interface{}{bbox.MinLat, bbox.MaxLat, bbox.MinLon, bbox.MaxLon}
	argIdx := 5

	if len(categories) > 0 {
		query += fmt.Sprintf(" AND category = ANY($%d)", argIdx)
		args = append(args, pq.Array(categoryStrings(categories)))
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY id LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("find_in_bbox failed", zap.Error(err))
		return nil, errors.ErrStorageError
	}
	defer rows.Close()

	var result []domain.POI
	for rows.Next() {
		var row poiRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.Category, &row.Lat, &row.Lon, &row.Popularity,
			&row.Description, &row.EstimatedVisitMinutes, &row.OSMId, &row.Metadata, &row.CreatedAt,
		); err != nil {
			r.logger.Warn("failed to scan poi row", zap.Error(err))
			continue
		}
		poi, err := row.toDomain()
		if err != nil {
			r.logger.Warn("skipping poi row with invalid coordinates", zap.Error(err))
			continue
		}
		result = append(result, poi)
	}
	return result, nil
}

// Insert and Count are off the generator's hot path (spec.md §4.1);
// kept for ingestion tooling and health probes.
func (r *poiRepository) Insert(ctx context.Context, poi domain.POI) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id := poi.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	metaJSON, err := json.Marshal(poi.Metadata)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pois (id, name, category, lat, lon, location, popularity,
			description, estimated_visit_minutes, osm_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($5, $4), 4326)::geography,
			$6, $7, $8, $9, $10, now())
	`, id, poi.Name, string(poi.Category), poi.Location.Lat(), poi.Location.Lon(),
		poi.Popularity, poi.Description, poi.EstimatedVisitMinutes, poi.OSMId, metaJSON)
	if err != nil {
		r.logger.Error("insert poi failed", zap.Error(err))
		return uuid.Nil, errors.ErrStorageError
	}
	return id, nil
}

func (r *poiRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM pois"); err != nil {
		r.logger.Error("count pois failed", zap.Error(err))
		return 0, errors.ErrStorageError
	}
	return count, nil
}

func categoryStrings(categories []domain.PoiCategory) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}
