package generator

import (
	"context"

	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/domain"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
	"github.com/triploop/routecore/internal/pkg/geo"
)

const maxTupleDirectionsAttempts = 2

// callDirections requests turn-by-turn directions for a closed loop
// start -> members -> start, making at most maxTupleDirectionsAttempts
// attempts (one retry) for retriable DirectionsError kinds (Transport, Upstream5xx,
// RateLimited) and abandoning the tuple immediately on any other
// failure (spec.md §4.5f). The caller's directions-budget counter is
// incremented once per attempt, not once per tuple.
func callDirections(ctx context.Context, client domainrepo.DirectionsClient, start geo.Coordinates, order []geo.Coordinates, mode domain.Mode, budget *budgetTracker, logger *zap.Logger) (*domainrepo.DirectionsResult, error) {
	waypoints := make([]geo.Coordinates, 0, len(order)+2)
	waypoints = append(waypoints, start)
	waypoints = append(waypoints, order...)
	waypoints = append(waypoints, start)

	var lastErr error
	for attempt := 1; attempt <= maxTupleDirectionsAttempts; attempt++ {
		if !budget.allow() {
			return nil, errBudgetExhausted
		}
		result, err := client.GetDirections(ctx, waypoints, mode)
		if err == nil {
			return result, nil
		}
		lastErr = err

		derr, ok := err.(*domainrepo.DirectionsError)
		if !ok || !derr.Retriable {
			logger.Debug("directions call failed, abandoning tuple", zap.Error(err), zap.Int("attempt", attempt))
			return nil, err
		}
		logger.Debug("directions call failed, retrying tuple", zap.Error(err), zap.Int("attempt", attempt))
	}
	return nil, lastErr
}
