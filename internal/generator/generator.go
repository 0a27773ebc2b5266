// Package generator implements the route generator orchestrator (C6):
// cache check, POI fetch, tolerance-escalating combinatorial search
// with a pre-directions geometric cost guard and bounded concurrent
// directions fan-out, geometric fallback, diversity-checked alternative
// generation, snapping, scoring, and cache population. Grounded
// directly on spec.md §4.5/§5 — the teacher has no combinatorial
// search orchestrator to adapt, so the control flow is new, but the
// concurrency idiom (guard-channel fan-out) and retry idiom (bounded
// exponential backoff) are both carried over from elsewhere in this
// codebase's ancestry (cnpryer-nextmv-sdk's OSRM client, NERVsystems-
// osmmcp's HTTP retry helper).
package generator

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/config"
	"github.com/triploop/routecore/internal/domain"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
	internalmetrics "github.com/triploop/routecore/internal/metrics"
	"github.com/triploop/routecore/internal/pkg/geo"
	apperrors "github.com/triploop/routecore/internal/pkg/errors"
	"github.com/triploop/routecore/internal/repository/cache"
	"github.com/triploop/routecore/internal/scoring"
	"github.com/triploop/routecore/internal/snapping"
	"github.com/triploop/routecore/internal/waypoint"
)

const absoluteMinPois = 2
const maxOverlapFraction = 0.70
const directionsBudgetCeiling = 60
const defaultMaxAlternatives = 3
const poiPoolFetchLimit = 500

// Generator ties together the POI repository, route cache, directions
// client, and snapping service behind the single GenerateLoop
// operation spec.md §4.5 describes.
type Generator struct {
	pois       domainrepo.POIRepository
	routeCache domainrepo.RouteCacheRepository
	directions domainrepo.DirectionsClient
	snapper    *snapping.Service
	cfg        config.GeneratorConfig
	strategy   scoring.Strategy
	logger     *zap.Logger
}

func New(pois domainrepo.POIRepository, routeCache domainrepo.RouteCacheRepository, directions domainrepo.DirectionsClient, snapper *snapping.Service, cfg config.GeneratorConfig, logger *zap.Logger) *Generator {
	return &Generator{
		pois:       pois,
		routeCache: routeCache,
		directions: directions,
		snapper:    snapper,
		cfg:        cfg,
		strategy:   scoring.Name(cfg.ScoringStrategy),
		logger:     logger,
	}
}

// GenerateLoop implements spec.md §4.5's nine-step pipeline.
func (g *Generator) GenerateLoop(ctx context.Context, req domain.LoopRequest) ([]domain.Route, error) {
	maxAlternatives := req.Preferences.MaxAlternatives
	if maxAlternatives <= 0 {
		maxAlternatives = g.cfg.DefaultMaxAlternatives
	}
	if maxAlternatives <= 0 {
		maxAlternatives = defaultMaxAlternatives
	}

	key := cache.BuildKey(req)

	if cached, err := g.routeCache.Get(ctx, key); err != nil {
		g.logger.Warn("route cache get failed, proceeding without cache", zap.Error(err))
	} else if cached != nil {
		return truncate(cached, maxAlternatives), nil
	}

	target := float64(req.DistanceKm)
	searchRadius := geo.RadiusMeters(target * 500) // t·500 (spec.md §4.5 step 2)
	pool, err := g.pois.FindWithinRadius(ctx, req.Start, searchRadius, req.Preferences.Categories, poiPoolFetchLimit)
	if err != nil {
		return nil, apperrors.ErrStorageError.WithDetails(map[string]interface{}{"cause": err.Error()})
	}
	if len(pool) < absoluteMinPois {
		return nil, apperrors.ErrInsufficientPois.WithDetails(map[string]interface{}{"found": len(pool)})
	}
	softFloor := int(math.Ceil(2.5 * target))
	if softFloor < 10 {
		softFloor = 10
	}
	if len(pool) < softFloor {
		g.logger.Info("poi pool below soft floor, proceeding anyway", zap.Int("found", len(pool)), zap.Int("soft_floor", softFloor))
	}

	weights := waypoint.Weights{
		Distance:  g.cfg.WeightDistance,
		Quality:   g.cfg.WeightQuality,
		Angular:   g.cfg.WeightAngular,
		Diversity: g.cfg.WeightDiversity,
		Variation: g.cfg.WeightVariation,
	}

	budgetMax := g.cfg.MaxCombinationsPerTolerance*len(toleranceLevels) + g.cfg.FallbackAttempts
	if budgetMax <= 0 || budgetMax > directionsBudgetCeiling {
		budgetMax = directionsBudgetCeiling
	}
	budget := newBudgetTracker(budgetMax)

	hiddenGems := req.Preferences.HiddenGems

	primary := searchOnce(ctx, g.directions, req.Start, target, req.Mode, pool, hiddenGems, weights, g.cfg, budget, 0, g.strategy, g.logger)
	if primary == nil {
		primary = searchFallback(ctx, g.directions, req.Start, target, req.Mode, g.cfg.FallbackAttempts, budget, g.strategy, hiddenGems, g.logger)
	}
	if primary == nil {
		return nil, apperrors.ErrDirectionsUnavailable
	}

	accepted := []domain.Route{*primary}

	for salt := 1; len(accepted) < maxAlternatives && budget.remaining() > 0 && salt <= maxAlternatives*3; salt++ {
		if ctx.Err() != nil {
			break
		}
		candidate := searchOnce(ctx, g.directions, req.Start, target, req.Mode, pool, hiddenGems, weights, g.cfg, budget, salt, g.strategy, g.logger)
		if candidate == nil {
			continue
		}
		if overlapsExisting(*candidate, accepted) {
			continue
		}
		accepted = append(accepted, *candidate)
	}

	g.snapAll(ctx, accepted, req.Preferences.Categories, target, hiddenGems)

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].QualityScore > accepted[j].QualityScore })
	accepted = truncate(accepted, maxAlternatives)

	if err := g.routeCache.Put(ctx, key, accepted); err != nil {
		g.logger.Warn("route cache put failed", zap.Error(err))
	}

	return accepted, nil
}

// overlapsExisting rejects a candidate whose path overlaps any
// already-accepted route beyond the 70% diversity threshold (spec.md
// §4.5 step 5).
func overlapsExisting(candidate domain.Route, accepted []domain.Route) bool {
	for _, existing := range accepted {
		if internalmetrics.OverlapFraction(candidate.Polyline, existing.Polyline) > maxOverlapFraction {
			return true
		}
	}
	return false
}

// snapAll runs the snapping pass (C7) over every accepted route,
// recomputing metrics and score afterward since snapped POIs feed
// density, entropy, and landmark-coverage. Snapping calls run
// concurrently across routes per spec.md §5.
func (g *Generator) snapAll(ctx context.Context, routes []domain.Route, categories []domain.PoiCategory, target float64, hiddenGems bool) {
	if g.snapper == nil {
		return
	}
	done := make(chan struct{}, len(routes))
	for i := range routes {
		i := i
		go func() {
			defer func() { done <- struct{}{} }()
			used := usedWaypoints(routes[i])
			snapped, err := g.snapper.Snap(ctx, routes[i].Polyline, categories, used)
			if err != nil {
				g.logger.Warn("snapping failed for accepted route", zap.Error(err), zap.String("route_id", routes[i].ID.String()))
				return
			}
			routes[i].SnappedPois = snapped
			computed := internalmetrics.Compute(routes[i])
			routes[i].Metrics = &computed
			routes[i].QualityScore = g.strategy.Score(routes[i], target, hiddenGems)
		}()
	}
	for range routes {
		<-done
	}
}

func usedWaypoints(route domain.Route) map[uuid.UUID]bool {
	used := make(map[uuid.UUID]bool, len(route.Pois))
	for _, p := range route.Pois {
		used[p.POI.ID] = true
	}
	return used
}

func truncate(routes []domain.Route, max int) []domain.Route {
	if max > 0 && len(routes) > max {
		return routes[:max]
	}
	return routes
}
