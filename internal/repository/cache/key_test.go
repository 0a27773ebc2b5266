package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/triploop/routecore/internal/domain"
	"github.com/triploop/routecore/internal/pkg/geo"
)

func mustCoord(t *testing.T, lat, lon float64) geo.Coordinates {
	t.Helper()
	c, err := geo.NewCoordinates(lat, lon)
	if err != nil {
		t.Fatalf("unexpected error building coordinates: %v", err)
	}
	return c
}

func TestBuildKeyIsCategoryOrderIndependent(t *testing.T) {
	start := mustCoord(t, 48.8566123, 2.3522456)

	req1 := domain.LoopRequest{
		Start: start, DistanceKm: 5.2, Mode: domain.ModeWalking,
		Preferences: domain.Preferences{Categories: []domain.PoiCategory{domain.CategoryMuseum, domain.CategoryCafe}},
	}
	req2 := domain.LoopRequest{
		Start: start, DistanceKm: 5.2, Mode: domain.ModeWalking,
		Preferences: domain.Preferences{Categories: []domain.PoiCategory{domain.CategoryCafe, domain.CategoryMuseum}},
	}

	assert.Equal(t, BuildKey(req1), BuildKey(req2))
}

func TestBuildKeyBucketsCoordinatesAndDistance(t *testing.T) {
	req1 := domain.LoopRequest{
		Start: mustCoord(t, 48.85661, 2.35223), DistanceKm: 5.05, Mode: domain.ModeWalking,
	}
	req2 := domain.LoopRequest{
		Start: mustCoord(t, 48.85659, 2.35224), DistanceKm: 5.2, Mode: domain.ModeWalking,
	}

	assert.Equal(t, BuildKey(req1), BuildKey(req2), "nearby coordinates and distances within bucket width must collide")
}

func TestBuildKeyDiffersByMode(t *testing.T) {
	start := mustCoord(t, 48.8566, 2.3522)

	walking := domain.LoopRequest{Start: start, DistanceKm: 5, Mode: domain.ModeWalking}
	cycling := domain.LoopRequest{Start: start, DistanceKm: 5, Mode: domain.ModeCycling}

	assert.NotEqual(t, BuildKey(walking), BuildKey(cycling))
}

func TestBuildKeyDiffersByHiddenGemsFlag(t *testing.T) {
	start := mustCoord(t, 48.8566, 2.3522)

	base := domain.LoopRequest{Start: start, DistanceKm: 5, Mode: domain.ModeWalking}
	gems := domain.LoopRequest{Start: start, DistanceKm: 5, Mode: domain.ModeWalking,
		Preferences: domain.Preferences{HiddenGems: true}}

	assert.NotEqual(t, BuildKey(base), BuildKey(gems))
}

func TestBuildKeyUsesWildcardWhenNoCategories(t *testing.T) {
	start := mustCoord(t, 48.8566, 2.3522)
	req := domain.LoopRequest{Start: start, DistanceKm: 5, Mode: domain.ModeWalking}

	assert.Contains(t, BuildKey(req), ":*:")
}
