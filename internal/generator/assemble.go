package generator

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/triploop/routecore/internal/domain"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
	"github.com/triploop/routecore/internal/metrics"
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/pkg/polyline"
	"github.com/triploop/routecore/internal/scoring"
	"github.com/triploop/routecore/internal/waypoint"
)

// buildRoute assembles a domain.Route from a directions result and the
// tuple of candidate POIs used to request it, computing per-waypoint
// arclength by nearest-point projection onto the returned geometry,
// then attaching metrics and a quality score (spec.md §4.5c/§4.6/§4.8).
func buildRoute(result *domainrepo.DirectionsResult, tpl waypoint.Tuple, snapped []domain.SnappedPoi, targetKm float64, hiddenGems bool, strategy scoring.Strategy, isFallback bool) domain.Route {
	pois := make([]domain.RoutePoi, len(tpl.Members))
	for i, member := range tpl.Members {
		_, arclenM, ok := nearestPointOnPath(result.Polyline, member.POI.Location)
		var distKm geo.DistanceKm
		if ok {
			distKm = geo.DistanceMeters(arclenM).ToKm()
		}
		pois[i] = domain.RoutePoi{
			POI:                 member.POI,
			OrderInRoute:        i + 1,
			DistanceFromStartKm: distKm,
		}
	}

	route := domain.Route{
		ID:                uuid.New(),
		DistanceKm:         geo.DistanceMeters(result.TotalDistanceM).ToKm(),
		EstimatedDuration:  time.Duration(result.TotalDurationS) * time.Second,
		Polyline:           result.Polyline,
		Pois:               pois,
		SnappedPois:        snapped,
		IsFallback:         isFallback,
		GeneratedAt:        time.Now().UTC(),
	}

	computed := metrics.Compute(route)
	route.Metrics = &computed
	route.QualityScore = strategy.Score(route, targetKm, hiddenGems)
	return route
}

// nearestPointOnPath duplicates snapping's unexported segment-projection
// helper: the minimum perpendicular distance from point to path and the
// arclength at the foot of that perpendicular. The generator uses
// snapping.Service only for the separate C7 enrichment pass.
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
