package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uber/h3-go/v4"
	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/domain"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
	"github.com/triploop/routecore/internal/pkg/errors"
	"github.com/triploop/routecore/internal/pkg/geo"
)

const queryTimeout = 5 * time.Second

type poiRepository struct {
	db         *DB
	logger     *zap.Logger
	resolution int
}

func NewPOIRepository(db *DB) domainrepo.POIRepository {
	return &poiRepository{db: db, logger: db.logger, resolution: db.h3Resolution}
}

type poiRow struct {
	ID                    string
	Name                  string
	Category              string
	Lat, Lon              float64
	Popularity            int
	Description           sql.NullString
	EstimatedVisitMinutes sql.NullInt64
	OSMId                 sql.NullInt64
	Metadata              sql.NullString
	CreatedAt             string
}

func (row poiRow) toDomain() (domain.POI, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.POI{}, err
	}
	loc, err := geo.NewCoordinates(row.Lat, row.Lon)
	if err != nil {
		return domain.POI{}, err
	}
	createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)

	poi := domain.POI{
		ID:         id,
		Name:       row.Name,
		Category:   domain.PoiCategory(row.Category),
		Location:   loc,
		Popularity: row.Popularity,
		CreatedAt:  createdAt,
	}
	if row.Description.Valid {
		d := row.Description.String
		poi.Description = &d
	}
	if row.EstimatedVisitMinutes.Valid {
		m := int(row.EstimatedVisitMinutes.Int64)
		poi.EstimatedVisitMinutes = &m
	}
	if row.OSMId.Valid {
		oid := row.OSMId.Int64
		poi.OSMId = &oid
	}
	if row.Metadata.Valid && row.Metadata.String != "" {
		var meta map[string]string
		if err := json.Unmarshal([]byte(row.Metadata.String), &meta); err == nil {
			poi.Metadata = meta
		}
	}
	return poi, nil
}

// avgHexEdgeMetersByResolution is h3's published average hexagon edge
// length per resolution (res 0..15, metres); used to size the grid disk
// instead of iteratively growing it, since a region's POI density is
// assumed roughly uniform at ingestion time.
var avgHexEdgeMetersByResolution = [...]float64{
	1107712.6, 418676.0, 158244.7, 59810.9, 22606.4, 8544.4, 3229.5,
	1220.6, 461.4, 174.4, 65.9, 24.9, 9.4, 3.6, 1.3, 0.5,
}

// ringForRadius returns the H3 cells covering radius around center at
// the repository's configured resolution: the origin cell's disk with
// k = radius / average edge length + 2 grid steps, the edge length read
// from avgHexEdgeMetersByResolution (100 m for a resolution outside it).
func (r *poiRepository) ringForRadius(center geo.Coordinates, radius geo.RadiusMeters) ([]h3.Cell, error) {
	origin := h3.LatLng{Lat: center.Lat(), Lng: center.Lon()}
	originCell := h3.LatLngToCell(origin, r.resolution)

	avgEdgeM := 100.0
	if r.resolution >= 0 && r.resolution < len(avgHexEdgeMetersByResolution) {
		avgEdgeM = avgHexEdgeMetersByResolution[r.resolution]
	}
	k := int(float64(radius)/avgEdgeM) + 2

	disk, err := h3.GridDisk(originCell, k)
	if err != nil {
		return nil, err
	}
	return disk, nil
}

func (r *poiRepository) FindWithinRadius(
	ctx context.Context,
	center geo.Coordinates,
	radius geo.RadiusMeters,
	categories []domain.PoiCategory,
	limit int,
) ([]domain.POI, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cells, err := r.ringForRadius(center, radius)
	if err != nil {
		r.logger.Error("h3 grid disk computation failed", zap.Error(err))
		return nil, errors.ErrStorageError
	}
	if len(cells) == 0 {
		return nil, nil
	}

	cellStrs := make([]string, len(cells))
	for i, c := range cells {
		cellStrs[i] = c.String()
	}

	query, args := buildInQuery(
		"SELECT id, name, category, lat, lon, popularity, description, estimated_visit_minutes, osm_id, metadata, created_at FROM pois WHERE h3_cell IN (%s)",
		cellStrs,
	)
	if len(categories) > 0 {
		catPlaceholder, catArgs := buildPlaceholders(categoryStrings(categories))
		query += fmt.Sprintf(" AND category IN (%s)", catPlaceholder)
		args = append(args, catArgs...)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("find_within_radius failed", zap.Error(err))
		return nil, errors.ErrStorageError
	}
	defer rows.Close()

	type scored struct {
		poi domain.POI
		d   geo.DistanceMeters
	}
	var candidates []scored
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
			continue
		}
		d := geo.HaversineDistance(center, poi.Location)
		if d > geo.DistanceMeters(radius) {
			continue
		}
		candidates = append(candidates, scored{poi: poi, d: d})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].d < candidates[j].d })

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	result := make([]domain.POI, len(candidates))
	for i, c := range candidates {
		result[i] = c.poi
	}
	return result, nil
}

func (r *poiRepository) FindInBbox(
	ctx context.Context,
	bbox geo.BoundingBox,
	categories []domain.PoiCategory,
	limit int,
) ([]domain.POI, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT id, name, category, lat, lon, popularity, description, estimated_visit_minutes, osm_id, metadata, created_at
		FROM pois WHERE lat BETWEEN ? AND ? AND lon BETWEEN ? AND ?`
	args := []interface{}{bbox.MinLat, bbox.MaxLat, bbox.MinLon, bbox.MaxLon}

	if len(categories) > 0 {
		ph, catArgs := buildPlaceholders(categoryStrings(categories))
		query += fmt.Sprintf(" AND category IN (%s)", ph)
		args = append(args, catArgs...)
	}
	query += " ORDER BY id LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
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
			continue
		}
		result = append(result, poi)
	}
	return result, nil
}

func (r *poiRepository) Insert(ctx context.Context, poi domain.POI) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id := poi.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	cell := h3.LatLngToCell(h3.LatLng{Lat: poi.Location.Lat(), Lng: poi.Location.Lon()}, r.resolution)

	metaJSON, err := json.Marshal(poi.Metadata)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pois (id, name, category, lat, lon, popularity, description,
			estimated_visit_minutes, osm_id, metadata, h3_cell, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id.String(), poi.Name, string(poi.Category), poi.Location.Lat(), poi.Location.Lon(),
		poi.Popularity, poi.Description, poi.EstimatedVisitMinutes, poi.OSMId,
		string(metaJSON), cell.String(), time.Now().UTC().Format(time.RFC3339))
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
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pois").Scan(&count); err != nil {
		r.logger.Error("count pois failed", zap.Error(err))
		return 0, errors.ErrStorageError
	}
	return count, nil
}

func buildInQuery(template string, values []string) (string, []interface{}) {
	placeholder, args := buildPlaceholders(values)
	return fmt.Sprintf(template, placeholder), args
}

func buildPlaceholders(values []string) (string, []interface{}) {
	placeholders := make([]string, len(values))
	args := make([]interface{}, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}
	return strings.Join(placeholders, ","), args
}

func categoryStrings(categories []domain.PoiCategory) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}
