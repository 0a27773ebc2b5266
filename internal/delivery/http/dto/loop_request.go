// Package dto holds the wire-shape request/response types for the
// route-loop HTTP boundary, kept distinct from internal/domain so the
// core's types never carry JSON tags or validator struct tags.
package dto

import "time"

// LoopRequest is the inbound POST /api/v1/routes/loop body (spec.md §6).
type LoopRequest struct {
	Lat         float64            `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64            `json:"lng" validate:"gte=-180,lte=180"`
	DistanceKm  float64            `json:"distance_km" validate:"gte=0.5,lte=50"`
	Mode        string             `json:"mode" validate:"required,oneof=walking cycling"`
	Preferences *PreferencesParams `json:"preferences,omitempty"`
}

// Categories is nil when the field was absent and a non-nil empty slice
// when the caller sent "categories": [] — the handler treats those two
// cases differently (spec.md §7: an explicit empty list is rejected).
// MaxAlternatives is a pointer for the same reason: nil means "use the
// server default", while a present zero must be rejected rather than
// silently re-defaulted.
type PreferencesParams struct {
	Categories      []string `json:"categories"`
	HiddenGems      bool     `json:"hidden_gems,omitempty"`
	MaxAlternatives *int     `json:"max_alternatives,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// RoutePoi is the wire shape of a waypoint POI within a returned route.
type RoutePoi struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	Lat                 float64 `json:"lat"`
	Lng                 float64 `json:"lng"`
	Popularity          int     `json:"popularity"`
	OrderInRoute        int     `json:"order_in_route"`
	DistanceFromStartKm float64 `json:"distance_from_start_km"`
}

// SnappedPoi is the wire shape of a POI found near the route but not
// used as a waypoint.
type SnappedPoi struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	Lat                 float64 `json:"lat"`
	Lng                 float64 `json:"lng"`
	Popularity          int     `json:"popularity"`
	DistanceFromPathM   float64 `json:"distance_from_path_m"`
	DistanceFromStartKm float64 `json:"distance_from_start_km"`
}

// RouteMetrics mirrors domain.RouteMetrics for the wire response.
type RouteMetrics struct {
	Circularity         float64 `json:"circularity"`
	Convexity           float64 `json:"convexity"`
	PathOverlapFraction float64 `json:"path_overlap_fraction"`
	PoiDensityPerKm     float64 `json:"poi_density_per_km"`
	CategoryEntropy     float64 `json:"category_entropy"`
	LandmarkCoverage    float64 `json:"landmark_coverage"`
	DensityContext      string  `json:"density_context"`
}

// Route is the wire shape of one produced loop route.
type Route struct {
	ID                string        `json:"id"`
	DistanceKm        float64       `json:"distance_km"`
	EstimatedDuration string        `json:"estimated_duration"`
	ElevationGainM    *float64      `json:"elevation_gain_m,omitempty"`
	Polyline          []LatLng      `json:"polyline"`
	Pois              []RoutePoi    `json:"pois"`
	SnappedPois       []SnappedPoi  `json:"snapped_pois"`
	QualityScore      float64       `json:"quality_score"`
	Metrics           *RouteMetrics `json:"metrics,omitempty"`
	IsFallback        bool          `json:"is_fallback"`
	GeneratedAt       time.Time     `json:"generated_at"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LoopResponse wraps the ordered list of accepted routes.
type LoopResponse struct {
	Routes []Route `json:"routes"`
}
