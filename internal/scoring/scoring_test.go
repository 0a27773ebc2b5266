package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/triploop/routecore/internal/domain"
)

func TestV1_PerfectDistanceMatchScoresMaxDistanceTerm(t *testing.T) {
	route := domain.Route{
		DistanceKm: 5.0,
		Pois: []domain.RoutePoi{
			{POI: domain.POI{Category: domain.CategoryMuseum, Popularity: 100}},
			{POI: domain.POI{Category: domain.CategoryPark, Popularity: 100}},
			{POI: domain.POI{Category: domain.CategoryCafe, Popularity: 100}},
		},
	}
	score := V1{}.Score(route, 5.0, false)
	assert.InDelta(t, 10.0, score, 1e-9)
}

func TestV1_ScoreIsClampedToTenEvenWithExtraTerms(t *testing.T) {
	route := domain.Route{
		DistanceKm: 5.0,
		Pois: []domain.RoutePoi{
			{POI: domain.POI{Category: domain.CategoryMuseum, Popularity: 100}},
			{POI: domain.POI{Category: domain.CategoryPark, Popularity: 100}},
			{POI: domain.POI{Category: domain.CategoryCafe, Popularity: 100}},
			{POI: domain.POI{Category: domain.CategoryBridge, Popularity: 100}},
		},
	}
	score := V1{}.Score(route, 5.0, false)
	assert.LessOrEqual(t, score, 10.0)
}

func TestV1_DistanceAccuracyDegradesWithDeviation(t *testing.T) {
	onTarget := domain.Route{DistanceKm: 5.0}
	offTarget := domain.Route{DistanceKm: 7.5}

	assert.Greater(t, V1{}.Score(onTarget, 5.0, false), V1{}.Score(offTarget, 5.0, false))
}

func TestV1_HiddenGemsInvertsQualityTerm(t *testing.T) {
	route := domain.Route{
		DistanceKm: 5.0,
		Pois:       []domain.RoutePoi{{POI: domain.POI{Category: domain.CategoryMuseum, Popularity: 90}}},
	}
	normal := V1{}.Score(route, 5.0, false)
	gems := V1{}.Score(route, 5.0, true)
	assert.Greater(t, normal, gems)
}

func TestV2_RewardsCircularityAndConvexity(t *testing.T) {
	route := domain.Route{
		DistanceKm: 5.0,
		Metrics:    &domain.RouteMetrics{Circularity: 0.9, Convexity: 0.95, PathOverlapFraction: 0},
	}
	withoutMetrics := domain.Route{DistanceKm: 5.0}

	assert.Greater(t, V2{}.Score(route, 5.0, false), V2{}.Score(withoutMetrics, 5.0, false))
}

func TestV2_PenalizesPathOverlap(t *testing.T) {
	low := domain.Route{DistanceKm: 5.0, Metrics: &domain.RouteMetrics{PathOverlapFraction: 0.1}}
	high := domain.Route{DistanceKm: 5.0, Metrics: &domain.RouteMetrics{PathOverlapFraction: 0.9}}

	assert.Greater(t, V2{}.Score(low, 5.0, false), V2{}.Score(high, 5.0, false))
}

func TestName_DefaultsToV1(t *testing.T) {
	assert.IsType(t, V1{}, Name("unknown"))
	assert.IsType(t, V1{}, Name(""))
	assert.IsType(t, V2{}, Name("v2"))
}

