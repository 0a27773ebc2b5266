package generator

import (
	"math"

	"github.com/triploop/routecore/internal/pkg/geo"
)

const fallbackWaypointCount = 4
const maxFallbackAttempts = 3

// fallbackJitter is deterministic per attempt (no true randomness,
// consistent with the waypoint engine's reproducible variation-salt
// treatment elsewhere in this package): attempt 0 is the bare circle,
// attempt 1 widens and rotates forward, attempt 2 narrows and rotates
// back, staying within spec.md §4.5's ±15% radius / ±20° rotation
// envelope.
func fallbackJitter(attempt int) (radiusFactor, rotationDeg float64) {
	switch attempt % maxFallbackAttempts {
	case 1:
		return 1.15, 20
	case 2:
		return 0.85, -20
	default:
		return 1.0, 0
	}
}

// inscribedPolygon places fallbackWaypointCount virtual waypoints on a
// circle of radius target/(2π) around start, jittered per attempt
// (spec.md §4.5 step 4).
func inscribedPolygon(start geo.Coordinates, targetKm float64, attempt int) []geo.Coordinates {
	radiusFactor, rotationDeg := fallbackJitter(attempt)
	radiusM := geo.DistanceMeters(targetKm / (2 * math.Pi) * 1000.0 * radiusFactor)

	points := make([]geo.Coordinates, fallbackWaypointCount)
	for i := 0; i < fallbackWaypointCount; i++ {
		bearing := rotationDeg + float64(i)*360.0/float64(fallbackWaypointCount)
		points[i] = geo.Destination(start, radiusM, bearing)
	}
	return points
}
