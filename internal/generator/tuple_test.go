package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triploop/routecore/internal/domain"
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/waypoint"
)

func coord(t *testing.T, lat, lon float64) geo.Coordinates {
	t.Helper()
	c, err := geo.NewCoordinates(lat, lon)
	require.NoError(t, err)
	return c
}

func candidateAt(t *testing.T, lat, lon float64) waypoint.Candidate {
	return waypoint.Candidate{POI: domain.POI{Location: coord(t, lat, lon)}}
}

func TestNearestNeighbourTour_VisitsClosestFirst(t *testing.T) {
	start := coord(t, 48.8566, 2.3522)
	near := candidateAt(t, 48.8576, 2.3522)
	far := candidateAt(t, 48.8766, 2.3522)

	order, total := nearestNeighbourTour(start, []waypoint.Candidate{far, near})

	assert.Equal(t, near.POI.Location, order[0])
	assert.Equal(t, far.POI.Location, order[1])
	assert.Greater(t, float64(total), 0.0)
}

func TestPassesGeometricFilter(t *testing.T) {
	assert.True(t, passesGeometricFilter(5000, 5.0, 0.2)) // 5km tour vs 5km target, exact match
	assert.False(t, passesGeometricFilter(50000, 5.0, 0.2)) // way over upper bound
	assert.False(t, passesGeometricFilter(100, 5.0, 0.2))   // below the 0.5*(1-tol)*target floor
}
