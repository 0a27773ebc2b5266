package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/pkg/polyline"
)

// Mode is the travel mode a loop request is generated for.
type Mode string

const (
	ModeWalking Mode = "walking"
	ModeCycling Mode = "cycling"
)

// RoutePoi is a waypoint POI actually used to shape a Route.
type RoutePoi struct {
	POI                 POI
	OrderInRoute        int // 1..k
	DistanceFromStartKm geo.DistanceKm
}

// SnappedPoi is a POI found near the route's polyline during the
// snapping pass (C7) but not used as a waypoint.
type SnappedPoi struct {
	POI                POI
	DistanceFromPathM  geo.DistanceMeters
	DistanceFromStartKm geo.DistanceKm
}

// DensityContext is the piecewise POI-density bucket from §4.8.
type DensityContext string

const (
	DensitySparse   DensityContext = "sparse"
	DensityModerate DensityContext = "moderate"
	DensityDense    DensityContext = "dense"
)

// RouteMetrics is the structured quality report attached to every
// finished route (C8), pure functions of the produced Route.
type RouteMetrics struct {
	Circularity          float64
	Convexity            float64
	PathOverlapFraction  float64
	PoiDensityPerKm      float64
	CategoryEntropy      float64
	LandmarkCoverage     float64
	DensityContext       DensityContext
}

// Route is a produced loop-route artifact.
type Route struct {
	ID                uuid.UUID
	DistanceKm        geo.DistanceKm
	EstimatedDuration  time.Duration
	ElevationGainM     *float64
	Polyline           polyline.Path
	Pois               []RoutePoi
	SnappedPois        []SnappedPoi
	QualityScore       float64 // [0, 10]
	Metrics            *RouteMetrics
	IsFallback         bool
	GeneratedAt        time.Time
}

// UniqueCategoryCount counts distinct categories across waypoints and
// snapped POIs, used by both the V1/V2 scoring strategies and metrics.
func (r Route) UniqueCategoryCount() int {
	seen := map[PoiCategory]struct{}{}
	for _, p := range r.Pois {
		seen[p.POI.Category] = struct{}{}
	}
	for _, p := range r.SnappedPois {
		seen[p.POI.Category] = struct{}{}
	}
	return len(seen)
}

// Preferences is the optional, caller-supplied narrowing of a loop
// request: categories to restrict candidate POIs to, the hidden-gems
// popularity inversion flag, and the number of alternatives to return.
type Preferences struct {
	Categories      []PoiCategory
	HiddenGems      bool
	MaxAlternatives int // 1..5, default 3
}

// LoopRequest is the core's entry point: a starting coordinate, a
// target loop distance, a travel mode, and optional preferences.
type LoopRequest struct {
	Start       geo.Coordinates
	DistanceKm  geo.DistanceKm // target, in [0.5, 50]
	Mode        Mode
	Preferences Preferences
}
