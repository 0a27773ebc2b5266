package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/triploop/routecore/internal/pkg/geo"
)

func TestInscribedPolygon_ProducesFourPoints(t *testing.T) {
	start := coord(t, 48.8566, 2.3522)
	points := inscribedPolygon(start, 5.0, 0)
	assert.Len(t, points, fallbackWaypointCount)
	for _, p := range points {
		d := geo.HaversineDistance(start, p)
		assert.InDelta(t, 5000.0/(2*3.141592653589793), float64(d), 5)
	}
}

func TestInscribedPolygon_WidensRadiusOnAttemptOne(t *testing.T) {
	start := coord(t, 48.8566, 2.3522)
	base := inscribedPolygon(start, 5.0, 0)
	widened := inscribedPolygon(start, 5.0, 1)

	baseDist := geo.HaversineDistance(start, base[0])
	widenedDist := geo.HaversineDistance(start, widened[0])
	assert.Greater(t, float64(widenedDist), float64(baseDist))
}

func TestFallbackJitter_CyclesThroughThreeAttempts(t *testing.T) {
	r0, rot0 := fallbackJitter(0)
	r1, rot1 := fallbackJitter(1)
	r2, rot2 := fallbackJitter(2)

	assert.Equal(t, 1.0, r0)
	assert.Equal(t, 0.0, rot0)
	assert.Equal(t, 1.15, r1)
	assert.Equal(t, 20.0, rot1)
	assert.Equal(t, 0.85, r2)
	assert.Equal(t, -20.0, rot2)
}
