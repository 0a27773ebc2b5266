// Package scoring implements the two final route-scoring strategies
// (spec.md §4.6). The strategy is a construction-time choice of the
// generator and must not change within a single request.
package scoring

import (
	"math"

	"github.com/triploop/routecore/internal/domain"
)

// Strategy scores a finished, metric-computed Route against its
// originating request's target distance and preferences.
type Strategy interface {
	Score(route domain.Route, targetKm float64, hiddenGems bool) float64
}

// Name selects a Strategy by its spec.md §4.6 identifier ("v1" | "v2").
func Name(name string) Strategy {
	if name == "v2" {
		return V2{}
	}
	return V1{}
}

// V1 is the default strategy: distance accuracy + POI count + POI
// quality + category diversity, clamped to [0, 10].
type V1 struct{}

func (V1) Score(route domain.Route, targetKm float64, hiddenGems bool) float64 {
	return clamp(0, 10, baseScore(route, targetKm, hiddenGems))
}

// V2 additionally rewards circularity and convexity and penalizes
// path overlap, also clamped to [0, 10].
type V2 struct{}

func (V2) Score(route domain.Route, targetKm float64, hiddenGems bool) float64 {
	total := baseScore(route, targetKm, hiddenGems)

	if route.Metrics != nil {
		if route.Metrics.Circularity >= 0.75 {
			total += 1
		}
		if route.Metrics.Convexity >= 0.80 {
			total += 0.5
		}
		total -= 1.5 * route.Metrics.PathOverlapFraction
	}

	return clamp(0, 10, total)
}

func baseScore(route domain.Route, targetKm float64, hiddenGems bool) float64 {
	actual := float64(route.DistanceKm)

	distanceAccuracy := 0.0
	if targetKm > 0 {
		distanceAccuracy = 3 * (1 - math.Min(1, math.Abs(actual-targetKm)/targetKm))
	}

	poiCount := math.Min(float64(len(route.Pois)), 3)

	quality := 0.0
	if len(route.Pois) > 0 {
		sum := 0.0
		for _, p := range route.Pois {
			sum += float64(p.POI.Popularity) / 100.0
		}
		mean := sum / float64(len(route.Pois))
		if hiddenGems {
			mean = 1 - mean
		}
		quality = 2 * mean
	}

	diversity := 2 * math.Min(1, float64(route.UniqueCategoryCount())/3.0)

	return distanceAccuracy + poiCount + quality + diversity
}

func clamp(min, max, v float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
