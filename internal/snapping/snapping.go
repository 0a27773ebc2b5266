// Package snapping implements the second-pass POI enrichment service
// (C7): expand the route's bounding box by the snap radius, query the
// POI repository for candidates, and retain those within perpendicular
// distance of the polyline, excluding any POI already used as a
// waypoint. Grounded on spec.md §4.7, using the already-built
// pkg/geo.BoundingBoxAround and pkg/polyline segment-distance helper.
package snapping

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/domain"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/pkg/polyline"
)

const defaultSnapRadiusMeters = 100.0
const bboxQueryLimit = 200

type Service struct {
	repo       domainrepo.POIRepository
	radius     geo.DistanceMeters
	logger     *zap.Logger
}

func New(repo domainrepo.POIRepository, radiusMeters float64, logger *zap.Logger) *Service {
	if radiusMeters <= 0 {
		radiusMeters = defaultSnapRadiusMeters
	}
	return &Service{repo: repo, radius: geo.DistanceMeters(radiusMeters), logger: logger}
}

// Snap returns the POIs near path within the snap radius, excluding any
// POI id present in used, ordered by arclength along path.
func (s *Service) Snap(ctx context.Context, path polyline.Path, categories []domain.PoiCategory, used map[uuid.UUID]bool) ([]domain.SnappedPoi, error) {
	if len(path) < 2 {
		return nil, nil
	}

	_, candidates, err := s.candidatesNearPath(ctx, path, categories)
	if err != nil {
		return nil, err
	}

	var snapped []domain.SnappedPoi
	for _, poi := range candidates {
		if used[poi.ID] {
			continue
		}
		dist, arclen, ok := nearestPointOnPath(path, poi.Location)
		if !ok || dist > s.radius {
			continue
		}
		snapped = append(snapped, domain.SnappedPoi{
			POI:                 poi,
			DistanceFromPathM:   dist,
			DistanceFromStartKm: geo.DistanceKm(float64(arclen) / 1000.0),
		})
	}

	sort.Slice(snapped, func(i, j int) bool { return snapped[i].DistanceFromStartKm < snapped[j].DistanceFromStartKm })
	return snapped, nil
}

// candidatesNearPath builds a bounding box covering path's full extent
// plus the snap radius margin (spec.md §4.7 step 1), by expanding
// around the extent's own centroid by the centroid-to-corner distance
// plus the snap radius — always covers the true extent-plus-margin box,
// since BoundingBoxAround only knows how to expand around a point.
func (s *Service) candidatesNearPath(ctx context.Context, path polyline.Path, categories []domain.PoiCategory) (geo.BoundingBox, []domain.POI, error) {
	minLat, maxLat := path[0].Lat(), path[0].Lat()
	minLon, maxLon := path[0].Lon(), path[0].Lon()
	for _, c := range path {
		if c.Lat() < minLat {
			minLat = c.Lat()
		}
		if c.Lat() > maxLat {
			maxLat = c.Lat()
		}
		if c.Lon() < minLon {
			minLon = c.Lon()
		}
		if c.Lon() > maxLon {
			maxLon = c.Lon()
		}
	}
	rawBbox, err := geo.NewBoundingBox(minLat, minLon, maxLat, maxLon)
	if err != nil {
		return geo.BoundingBox{}, nil, err
	}
	center := rawBbox.Center()

	halfExtent := geo.DistanceMeters(0)
	for _, corner := range []geo.Coordinates{
		mustCoord(minLat, minLon), mustCoord(minLat, maxLon),
		mustCoord(maxLat, minLon), mustCoord(maxLat, maxLon),
	} {
		if d := geo.HaversineDistance(center, corner); d > halfExtent {
			halfExtent = d
		}
	}

	expanded, err := geo.BoundingBoxAround(center, halfExtent+s.radius)
	if err != nil {
		return geo.BoundingBox{}, nil, err
	}

	pois, err := s.repo.FindInBbox(ctx, expanded, categories, bboxQueryLimit)
	if err != nil {
		return geo.BoundingBox{}, nil, err
	}
	return expanded, pois, nil
}

func mustCoord(lat, lon float64) geo.Coordinates {
	c, _ := geo.NewCoordinates(lat, lon)
	return c
}

// nearestPointOnPath finds the minimum perpendicular distance from
// point to any segment of path, and the arclength at the foot of that
// perpendicular.
func nearestPointOnPath(path polyline.Path, point geo.Coordinates) (geo.DistanceMeters, geo.DistanceMeters, bool) {
	if len(path) < 2 {
		return 0, 0, false
	}

	best := geo.DistanceMeters(-1)
	var bestArclen geo.DistanceMeters
	cumulative := geo.DistanceMeters(0)

	for i := 0; i+1 < len(path); i++ {
		segLen := geo.HaversineDistance(path[i], path[i+1])
		d := polyline.DistanceToSegment(point, path[i], path[i+1])
		if best < 0 || d < best {
			best = d
			// Project point onto the segment (planar lon/lat) and
			// interpolate the segment length by the clamped fraction.
			dx := path[i+1].Lon() - path[i].Lon()
			dy := path[i+1].Lat() - path[i].Lat()
			frac := 0.0
			if dx != 0 || dy != 0 {
				frac = ((point.Lon()-path[i].Lon())*dx + (point.Lat()-path[i].Lat())*dy) / (dx*dx + dy*dy)
				frac = math.Max(0, math.Min(1, frac))
			}
			bestArclen = cumulative + geo.DistanceMeters(float64(segLen)*frac)
		}
		cumulative += segLen
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, bestArclen, true
}
