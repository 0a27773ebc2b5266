package generator

import (
	"context"

	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/config"
	"github.com/triploop/routecore/internal/domain"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/scoring"
	"github.com/triploop/routecore/internal/waypoint"
)

// searchOnce runs the tolerance-escalating search of spec.md §4.5 steps
// 3a-3f once and returns the first accepted, fully assembled route, or
// nil if every tolerance level and retry attempt was exhausted without
// a directions result within tolerance of target. attemptSalt offsets
// the combination-enumeration attempt index so repeated calls (made
// during alternative generation) explore a different region of the
// candidate space while remaining deterministic.
func searchOnce(ctx context.Context, client domainrepo.DirectionsClient, start geo.Coordinates, target float64, mode domain.Mode, pois []domain.POI, hiddenGems bool, weights waypoint.Weights, cfg config.GeneratorConfig, budget *budgetTracker, attemptSalt int, strategy scoring.Strategy, logger *zap.Logger) *domain.Route {
	for _, level := range toleranceLevels {
		for r := 0; r <= cfg.MaxRetries; r++ {
			if ctx.Err() != nil {
				return nil
			}
			if budget.remaining() <= 0 {
				return nil
			}

			adjusted := adjustedTarget(target, r)
			k := waypoint.SelectK(adjusted, len(pois))
			candidates := waypoint.BuildCandidates(start, adjusted, pois, hiddenGems, weights)
			attempt := r + attemptSalt
			tuples := waypoint.EnumerateCombinations(candidates, k, attempt, weights, cfg.MinPOISeparationKm, cfg.MaxCombinationsPerTolerance)
			if len(tuples) == 0 {
				continue
			}

			surviving := make([]waypoint.Tuple, 0, len(tuples))
			for _, tpl := range tuples {
				_, lowerBound := nearestNeighbourTour(start, tpl.Members)
				if passesGeometricFilter(lowerBound, adjusted, level.fraction) {
					surviving = append(surviving, tpl)
				}
			}
			if len(surviving) == 0 {
				continue
			}

			best := fanOut(ctx, client, start, surviving, mode, cfg.DirectionsFanOut, budget, logger, func(res tupleResult) bool {
				actualKm := float64(geo.DistanceMeters(res.direction.TotalDistanceM).ToKm())
				return withinTolerance(actualKm, target, level.fraction)
			})
			if best != nil {
				route := buildRoute(best.direction, best.tuple, nil, target, hiddenGems, strategy, false)
				return &route
			}
		}
	}
	return nil
}

// searchFallback runs the geometric fallback of spec.md §4.5 step 4:
// up to FallbackAttempts synthetic loops on a jittered circle, accepted
// against the most relaxed tolerance level.
func searchFallback(ctx context.Context, client domainrepo.DirectionsClient, start geo.Coordinates, target float64, mode domain.Mode, attempts int, budget *budgetTracker, strategy scoring.Strategy, hiddenGems bool, logger *zap.Logger) *domain.Route {
	if attempts <= 0 {
		attempts = maxFallbackAttempts
	}
	veryRelaxed := toleranceLevels[len(toleranceLevels)-1].fraction

	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil || budget.remaining() <= 0 {
			return nil
		}
		points := inscribedPolygon(start, target, attempt)
		if !budget.allow() {
			return nil
		}

		waypoints := make([]geo.Coordinates, 0, len(points)+2)
		waypoints = append(waypoints, start)
		waypoints = append(waypoints, points...)
		waypoints = append(waypoints, start)

		result, err := client.GetDirections(ctx, waypoints, mode)
		if err != nil {
			logger.Debug("fallback directions attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		actualKm := float64(geo.DistanceMeters(result.TotalDistanceM).ToKm())
		if !withinTolerance(actualKm, target, veryRelaxed) {
			continue
		}

		tpl := syntheticTuple(points)
		route := buildRoute(result, tpl, nil, target, hiddenGems, strategy, true)
		return &route
	}
	return nil
}

// syntheticTuple wraps the fallback's virtual waypoints as bare
// domain.POI values (no name/category — they were never POIs) so
// buildRoute's per-waypoint arclength projection can run unchanged.
func syntheticTuple(points []geo.Coordinates) waypoint.Tuple {
	members := make([]waypoint.Candidate, len(points))
	for i, p := range points {
		members[i] = waypoint.Candidate{POI: domain.POI{Location: p}}
	}
	return waypoint.Tuple{Members: members}
}
