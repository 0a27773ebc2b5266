package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triploop/routecore/internal/pkg/geo"
)

func TestNewCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{"valid", 51.5074, -0.1278, false},
		{"lat too high", 90.1, 0, true},
		{"lat too low", -90.1, 0, true},
		{"lon too high", 0, 180.1, true},
		{"lon too low", 0, -180.1, true},
		{"boundary valid", 90, 180, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := geo.NewCoordinates(tt.lat, tt.lon)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHaversineDistance(t *testing.T) {
	london, err := geo.NewCoordinates(51.5074, -0.1278)
	require.NoError(t, err)
	paris, err := geo.NewCoordinates(48.8566, 2.3522)
	require.NoError(t, err)

	d := geo.HaversineDistance(london, paris)

	// known great-circle distance is ~344km
	assert.InDelta(t, 344000.0, float64(d), 5000.0)
}

func TestHaversineDistanceZeroForSamePoint(t *testing.T) {
	p, err := geo.NewCoordinates(40.0, -74.0)
	require.NoError(t, err)

	assert.Equal(t, geo.DistanceMeters(0), geo.HaversineDistance(p, p))
}

func TestBearingAndAngularDifference(t *testing.T) {
	origin, err := geo.NewCoordinates(0, 0)
	require.NoError(t, err)
	north, err := geo.NewCoordinates(1, 0)
	require.NoError(t, err)
	east, err := geo.NewCoordinates(0, 1)
	require.NoError(t, err)

	bNorth := geo.Bearing(origin, north)
	bEast := geo.Bearing(origin, east)

	assert.InDelta(t, 0.0, bNorth, 0.5)
	assert.InDelta(t, 90.0, bEast, 0.5)
	assert.InDelta(t, 90.0, geo.AngularDifference(bNorth, bEast), 0.5)
}

func TestAngularDifferenceWrapsAround(t *testing.T) {
	assert.InDelta(t, 20.0, geo.AngularDifference(10, 350), 0.01)
}

func TestDestinationRoundTrip(t *testing.T) {
	origin, err := geo.NewCoordinates(45.0, 10.0)
	require.NoError(t, err)

	dest := geo.Destination(origin, geo.DistanceKm(1).ToMeters(), 90)
	dist := geo.HaversineDistance(origin, dest)

	assert.InDelta(t, 1000.0, float64(dist), 5.0)
}

func TestDistanceUnitConversion(t *testing.T) {
	d := geo.DistanceKm(2.5)
	assert.Equal(t, geo.DistanceMeters(2500), d.ToMeters())
	assert.Equal(t, geo.DistanceKm(2.5), d.ToMeters().ToKm())
}

func TestBoundingBoxAround(t *testing.T) {
	center, err := geo.NewCoordinates(51.5074, -0.1278)
	require.NoError(t, err)

	bbox, err := geo.BoundingBoxAround(center, 1000)
	require.NoError(t, err)

	assert.True(t, bbox.Contains(center))
	assert.Greater(t, bbox.MaxLat, bbox.MinLat)
	assert.Greater(t, bbox.MaxLon, bbox.MinLon)
}

func TestBoundingBoxAroundRejectsAntimeridianCrossing(t *testing.T) {
	center, err := geo.NewCoordinates(0, 179.999)
	require.NoError(t, err)

	_, err = geo.BoundingBoxAround(center, 5000)
	assert.Error(t, err)
}

func TestNewBoundingBoxRejectsInvertedLon(t *testing.T) {
	_, err := geo.NewBoundingBox(-1, 10, 1, -10)
	assert.Error(t, err)
}
