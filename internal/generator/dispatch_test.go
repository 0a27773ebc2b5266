package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/domain"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/pkg/polyline"
)

// flappingClient fails with a retriable Upstream5xx for the first
// failUntil calls, then succeeds.
type flappingClient struct {
	calls     int
	failUntil int
	fatal     bool
}

func (c *flappingClient) GetDirections(context.Context, []geo.Coordinates, domain.Mode) (*domainrepo.DirectionsResult, error) {
	c.calls++
	if c.calls <= c.failUntil {
		if c.fatal {
			return nil, domainrepo.NewDirectionsError(domainrepo.ErrKindUpstream4xx, "bad request", nil)
		}
		return nil, domainrepo.NewDirectionsError(domainrepo.ErrKindUpstream5xx, "upstream flapping", nil)
	}
	return &domainrepo.DirectionsResult{Polyline: polyline.Path{}, TotalDistanceM: 5000, TotalDurationS: 600}, nil
}

func TestCallDirections_SucceedsAfterOneRetriableFailure(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	client := &flappingClient{failUntil: 1}
	start := coord(t, 48.8566, 2.3522)
	order := []geo.Coordinates{coord(t, 48.8576, 2.3532)}
	budget := newBudgetTracker(10)

	result, err := callDirections(context.Background(), client, start, order, domain.ModeWalking, budget, logger)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, 8, budget.remaining())
}

func TestCallDirections_AbandonsAfterMaxRetriableFailures(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	client := &flappingClient{failUntil: 3}
	start := coord(t, 48.8566, 2.3522)
	order := []geo.Coordinates{coord(t, 48.8576, 2.3532)}
	budget := newBudgetTracker(10)

	_, err := callDirections(context.Background(), client, start, order, domain.ModeWalking, budget, logger)
	require.Error(t, err)
	assert.Equal(t, maxTupleDirectionsAttempts, client.calls)
}

func TestCallDirections_AbandonsImmediatelyOnFatalError(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	client := &flappingClient{failUntil: 1, fatal: true}
	start := coord(t, 48.8566, 2.3522)
	order := []geo.Coordinates{coord(t, 48.8576, 2.3532)}
	budget := newBudgetTracker(10)

	_, err := callDirections(context.Background(), client, start, order, domain.ModeWalking, budget, logger)
	require.Error(t, err)
	assert.Equal(t, 1, client.calls)
}
