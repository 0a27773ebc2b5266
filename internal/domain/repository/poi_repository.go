// Package repository declares the capability interfaces the generator
// depends on: POIRepository, RouteCacheRepository, and the directions
// client boundary. The generator depends on these capabilities, never
// on a concrete backend (spec.md §9 "Dynamic dispatch").
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/triploop/routecore/internal/domain"
	"github.com/triploop/routecore/internal/pkg/geo"
)

// POIRepository is polymorphic over the PostGIS-backed and
// SQLite/H3-backed variants (C2). Implementations must guarantee
// sub-linear lookup for both spatial queries (spec.md §4.1) and must
// apply a true great-circle filter before returning radius results.
type POIRepository interface {
	// FindWithinRadius returns POIs whose great-circle distance from
	// center is <= radius, ordered by ascending distance, optionally
	// restricted to categories, capped at limit.
	FindWithinRadius(ctx context.Context, center geo.Coordinates, radius geo.RadiusMeters, categories []domain.PoiCategory, limit int) ([]domain.POI, error)

	// FindInBbox returns POIs inside the inclusive rectangle, stably
	// ordered within a call, optionally restricted to categories,
	// capped at limit.
	FindInBbox(ctx context.Context, bbox geo.BoundingBox, categories []domain.PoiCategory, limit int) ([]domain.POI, error)

	// Insert and Count are not called on the generator's hot path; they
	// exist for ingestion tooling and health probes (spec.md §4.1).
	Insert(ctx context.Context, poi domain.POI) (uuid.UUID, error)
	Count(ctx context.Context) (int64, error)
}
