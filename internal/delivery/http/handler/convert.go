package handler

import (
	"github.com/triploop/routecore/internal/delivery/http/dto"
	"github.com/triploop/routecore/internal/domain"
)

func toDTORoutes(routes []domain.Route) []dto.Route {
	out := make([]dto.Route, len(routes))
	for i, r := range routes {
		out[i] = toDTORoute(r)
	}
	return out
}

func toDTORoute(r domain.Route) dto.Route {
	poly := make([]dto.LatLng, len(r.Polyline))
	for i, c := range r.Polyline {
		poly[i] = dto.LatLng{Lat: c.Lat(), Lng: c.Lon()}
	}

	pois := make([]dto.RoutePoi, len(r.Pois))
	for i, p := range r.Pois {
		pois[i] = dto.RoutePoi{
			ID:                  p.POI.ID.String(),
			Name:                p.POI.Name,
			Category:            string(p.POI.Category),
			Lat:                 p.POI.Location.Lat(),
			Lng:                 p.POI.Location.Lon(),
			Popularity:          p.POI.Popularity,
			OrderInRoute:        p.OrderInRoute,
			DistanceFromStartKm: float64(p.DistanceFromStartKm),
		}
	}

	snapped := make([]dto.SnappedPoi, len(r.SnappedPois))
	for i, s := range r.SnappedPois {
		snapped[i] = dto.SnappedPoi{
			ID:                  s.POI.ID.String(),
			Name:                s.POI.Name,
			Category:            string(s.POI.Category),
			Lat:                 s.POI.Location.Lat(),
			Lng:                 s.POI.Location.Lon(),
			Popularity:          s.POI.Popularity,
			DistanceFromPathM:   float64(s.DistanceFromPathM),
			DistanceFromStartKm: float64(s.DistanceFromStartKm),
		}
	}

	var metrics *dto.RouteMetrics
	if r.Metrics != nil {
		metrics = &dto.RouteMetrics{
			Circularity:         r.Metrics.Circularity,
			Convexity:           r.Metrics.Convexity,
			PathOverlapFraction: r.Metrics.PathOverlapFraction,
			PoiDensityPerKm:     r.Metrics.PoiDensityPerKm,
			CategoryEntropy:     r.Metrics.CategoryEntropy,
			LandmarkCoverage:    r.Metrics.LandmarkCoverage,
			DensityContext:      string(r.Metrics.DensityContext),
		}
	}

	return dto.Route{
		ID:                r.ID.String(),
		DistanceKm:        float64(r.DistanceKm),
		EstimatedDuration: r.EstimatedDuration.String(),
		ElevationGainM:    r.ElevationGainM,
		Polyline:          poly,
		Pois:              pois,
		SnappedPois:       snapped,
		QualityScore:      r.QualityScore,
		Metrics:           metrics,
		IsFallback:        r.IsFallback,
		GeneratedAt:       r.GeneratedAt,
	}
}
