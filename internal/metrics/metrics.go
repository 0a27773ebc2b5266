// Package metrics computes the route quality report (C8): circularity,
// convexity, path overlap, POI density, category entropy and landmark
// coverage. Every function here is a pure function of already-produced
// Route/Polyline data — no I/O, grounded directly on spec.md §4.8 using
// the orb-backed geometry helpers in pkg/polyline.
package metrics

import (
	"math"

	"github.com/triploop/routecore/internal/domain"
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/pkg/polyline"
)

// overlapCorridorMeters is the segment-proximity threshold used by both
// the self-overlap metric and the alternative-diversity check (spec.md
// §4.8/§4.5).
const overlapCorridorMeters = 20.0

// Compute derives the full RouteMetrics for a just-produced route. Path
// overlap always uses the self-overlap definition recorded as the Open Question decision in
// DESIGN.md: outbound vs. inbound halves split at the polyline
// midpoint.
func Compute(route domain.Route) domain.RouteMetrics {
	circularity := polyline.Circularity(route.Polyline)
	convexity := polyline.Convexity(route.Polyline)

	overlap := selfOverlapFraction(route.Polyline)

	waypointCount := len(route.Pois) + len(route.SnappedPois)
	density := 0.0
	if route.DistanceKm > 0 {
		density = float64(waypointCount) / float64(route.DistanceKm)
	}

	entropy := categoryEntropy(route)
	coverage := landmarkCoverage(route)

	return domain.RouteMetrics{
		Circularity:         clamp01(circularity),
		Convexity:           clamp01(convexity),
		PathOverlapFraction: overlap,
		PoiDensityPerKm:     density,
		CategoryEntropy:     entropy,
		LandmarkCoverage:    coverage,
		DensityContext:      densityContext(density),
	}
}

// OverlapFraction is the pairwise path-overlap used by the generator's
// alternative-diversity rejection (spec.md §4.5/§8 invariant 4):
// fraction of candidate's polyline length whose segments lie within
// the 20 m corridor of any segment in the comparison set.
func OverlapFraction(candidate polyline.Path, comparison ...polyline.Path) float64 {
	if len(candidate) < 2 || len(comparison) == 0 {
		return 0
	}
	var overlapping, total geo.DistanceMeters
	for i := 0; i+1 < len(candidate); i++ {
		segLen := geo.HaversineDistance(candidate[i], candidate[i+1])
		total += segLen
		if segLen == 0 {
			continue
		}
		mid := midpoint(candidate[i], candidate[i+1])
		if withinCorridorOfAny(mid, comparison) {
			overlapping += segLen
		}
	}
	if total == 0 {
		return 0
	}
	return float64(overlapping) / float64(total)
}

func selfOverlapFraction(path polyline.Path) float64 {
	if len(path) < 4 {
		return 0
	}
	mid := len(path) / 2
	outbound := path[:mid+1]
	inbound := path[mid:]
	return OverlapFraction(outbound, inbound)
}

func withinCorridorOfAny(point geo.Coordinates, comparison []polyline.Path) bool {
	for _, path := range comparison {
		for i := 0; i+1 < len(path); i++ {
			d := polyline.DistanceToSegment(point, path[i], path[i+1])
			if float64(d) <= overlapCorridorMeters {
				return true
			}
		}
	}
	return false
}

func midpoint(a, b geo.Coordinates) geo.Coordinates {
	lat := (a.Lat() + b.Lat()) / 2
	lon := (a.Lon() + b.Lon()) / 2
	c, err := geo.NewCoordinates(lat, lon)
	if err != nil {
		return a
	}
	return c
}

func categoryEntropy(route domain.Route) float64 {
	counts := map[domain.PoiCategory]int{}
	total := 0
	for _, p := range route.Pois {
		counts[p.POI.Category]++
		total++
	}
	for _, s := range route.SnappedPois {
		counts[s.POI.Category]++
		total++
	}
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func landmarkCoverage(route domain.Route) float64 {
	total := len(route.Pois) + len(route.SnappedPois)
	if total == 0 {
		return 0
	}
	landmarks := 0
	for _, p := range route.Pois {
		if p.POI.Popularity >= 75 {
			landmarks++
		}
	}
	for _, s := range route.SnappedPois {
		if s.POI.Popularity >= 75 {
			landmarks++
		}
	}
	return float64(landmarks) / float64(total)
}

func densityContext(densityPerKm float64) domain.DensityContext {
	switch {
	case densityPerKm < 0.5:
		return domain.DensitySparse
	case densityPerKm < 1.5:
		return domain.DensityModerate
	default:
		return domain.DensityDense
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
