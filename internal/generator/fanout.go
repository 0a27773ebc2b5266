package generator

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/triploop/routecore/internal/domain"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/waypoint"
)

// tupleResult pairs a candidate combination with its directions
// outcome.
type tupleResult struct {
	tuple     waypoint.Tuple
	order     []geo.Coordinates
	direction *domainrepo.DirectionsResult
	err       error
}

// fanOut dispatches directions calls for tuples concurrently, bounded
// by fanOutWidth in-flight requests (spec.md §5), using
// golang.org/x/sync's errgroup for goroutine/error lifecycle and
// semaphore.Weighted for the bound itself — the same pairing the
// teacher's mapbox batch scheduler approximates with a raw guard
// channel, expressed here with the dedicated library since the
// generator is new code, not an adaptation of an existing teacher
// loop. accept decides whether a given result already satisfies the
// request; once it does, the remaining outstanding goroutines are
// told to stop via context cancellation and their results are
// dropped — "first acceptable result wins" (spec.md §5).
func fanOut(ctx context.Context, client domainrepo.DirectionsClient, start geo.Coordinates, tuples []waypoint.Tuple, mode domain.Mode, fanOutWidth int, budget *budgetTracker, logger *zap.Logger, accept func(tupleResult) bool) *tupleResult {
	if fanOutWidth <= 0 {
		fanOutWidth = 5
	}
	childCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(fanOutWidth))
	group, groupCtx := errgroup.WithContext(childCtx)
	out := make(chan tupleResult, len(tuples))

	for _, tpl := range tuples {
		tpl := tpl
		group.Go(func() error {
			if err := sem.Acquire(groupCtx, 1); err != nil {
				return nil // context already cancelled, nothing to dispatch
			}
			defer sem.Release(1)

			if groupCtx.Err() != nil {
				return nil
			}

			order, _ := nearestNeighbourTour(start, tpl.Members)
			result, err := callDirections(groupCtx, client, start, order, mode, budget, logger)
			select {
			case out <- tupleResult{tuple: tpl, order: order, direction: result, err: err}:
			case <-groupCtx.Done():
			}
			return nil
		})
	}

	go func() {
		_ = group.Wait()
		close(out)
	}()

	var best *tupleResult
	for r := range out {
		if r.err != nil {
			continue
		}
		rCopy := r
		if accept(rCopy) {
			best = &rCopy
			cancel()
			break
		}
	}
	return best
}
