package generator

import (
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/waypoint"
)

// nearestNeighbourTour greedily orders members starting from start,
// returning the visiting order (members only, start implied at both
// ends) and the closed tour length (start → members → start). This is
// the lower-bound heuristic named in spec.md §5 and also the ordering
// used for the actual directions call, per spec.md §4.5c — it is
// explicitly not required to be optimal (DESIGN.md Open Question
// decision).
func nearestNeighbourTour(start geo.Coordinates, members []waypoint.Candidate) ([]geo.Coordinates, geo.DistanceMeters) {
	remaining := make([]waypoint.Candidate, len(members))
	copy(remaining, members)

	order := make([]geo.Coordinates, 0, len(members))
	var total geo.DistanceMeters
	current := start

	for len(remaining) > 0 {
		bestIdx := 0
		bestDist := geo.HaversineDistance(current, remaining[0].POI.Location)
		for i := 1; i < len(remaining); i++ {
			if d := geo.HaversineDistance(current, remaining[i].POI.Location); d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		total += bestDist
		current = remaining[bestIdx].POI.Location
		order = append(order, current)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	total += geo.HaversineDistance(current, start)
	return order, total
}

// passesGeometricFilter is the pre-directions cost guard (spec.md §5):
// a tuple's nearest-neighbour tour length must fall within a generous
// envelope around the adjusted target before any directions call is
// issued.
func passesGeometricFilter(lowerBoundM geo.DistanceMeters, targetKm, tolerance float64) bool {
	lowerBoundKm := float64(lowerBoundM) / 1000.0
	upper := targetKm * (1 + tolerance)
	lower := targetKm * (1 - tolerance) * 0.5
	return lowerBoundKm <= upper && lowerBoundKm >= lower
}
