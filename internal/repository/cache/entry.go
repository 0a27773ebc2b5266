package cache

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/triploop/routecore/internal/domain"
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/pkg/polyline"
)

// cacheEntry is the wire shape persisted for a bucket key: an ordered
// list of routes plus the wall-clock insertion timestamp (spec.md §3's
// Cache entry). The route polyline is stored as a polyline5 string
// rather than a raw float array, per SPEC_FULL.md §2.
type cacheEntry struct {
	InsertedAt time.Time    `json:"inserted_at"`
	Routes     []cachedRoute `json:"routes"`
}

type cachedRoute struct {
	ID                  uuid.UUID         `json:"id"`
	DistanceKm          float64           `json:"distance_km"`
	EstimatedDurationS  float64           `json:"estimated_duration_s"`
	ElevationGainM      *float64          `json:"elevation_gain_m,omitempty"`
	Polyline            string            `json:"polyline"`
	Pois                []cachedRoutePoi  `json:"pois"`
	SnappedPois         []cachedSnappedPoi `json:"snapped_pois"`
	QualityScore        float64           `json:"quality_score"`
	Metrics             *domain.RouteMetrics `json:"metrics,omitempty"`
	IsFallback          bool              `json:"is_fallback"`
	GeneratedAt         time.Time         `json:"generated_at"`
}

type cachedPoi struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	Category              string    `json:"category"`
	Lat                   float64   `json:"lat"`
	Lon                   float64   `json:"lon"`
	Popularity            int       `json:"popularity"`
	Description           *string   `json:"description,omitempty"`
	EstimatedVisitMinutes *int      `json:"estimated_visit_minutes,omitempty"`
	OSMId                 *int64    `json:"osm_id,omitempty"`
	Metadata              map[string]string `json:"metadata,omitempty"`
}

type cachedRoutePoi struct {
	Poi                 cachedPoi `json:"poi"`
	OrderInRoute        int       `json:"order_in_route"`
	DistanceFromStartKm float64   `json:"distance_from_start_km"`
}

type cachedSnappedPoi struct {
	Poi                 cachedPoi `json:"poi"`
	DistanceFromPathM   float64   `json:"distance_from_path_m"`
	DistanceFromStartKm float64   `json:"distance_from_start_km"`
}

func toCachedPoi(p domain.POI) cachedPoi {
	return cachedPoi{
		ID: p.ID, Name: p.Name, Category: string(p.Category),
		Lat: p.Location.Lat(), Lon: p.Location.Lon(), Popularity: p.Popularity,
		Description: p.Description, EstimatedVisitMinutes: p.EstimatedVisitMinutes,
		OSMId: p.OSMId, Metadata: p.Metadata,
	}
}

func fromCachedPoi(c cachedPoi) (domain.POI, error) {
	loc, err := geo.NewCoordinates(c.Lat, c.Lon)
	if err != nil {
		return domain.POI{}, err
	}
	return domain.POI{
		ID: c.ID, Name: c.Name, Category: domain.PoiCategory(c.Category),
		Location: loc, Popularity: c.Popularity, Description: c.Description,
		EstimatedVisitMinutes: c.EstimatedVisitMinutes, OSMId: c.OSMId, Metadata: c.Metadata,
	}, nil
}

func encodeEntry(routes []domain.Route) ([]byte, error) {
	entry := cacheEntry{InsertedAt: time.Now().UTC(), Routes: make([]cachedRoute, len(routes))}
	for i, route := range routes {
		cr := cachedRoute{
			ID:                 route.ID,
			DistanceKm:         float64(route.DistanceKm),
			EstimatedDurationS: route.EstimatedDuration.Seconds(),
			ElevationGainM:     route.ElevationGainM,
			Polyline:           polyline.Encode(route.Polyline),
			QualityScore:       route.QualityScore,
			Metrics:            route.Metrics,
			IsFallback:         route.IsFallback,
			GeneratedAt:        route.GeneratedAt,
		}
		for _, p := range route.Pois {
			cr.Pois = append(cr.Pois, cachedRoutePoi{
				Poi:                 toCachedPoi(p.POI),
				OrderInRoute:        p.OrderInRoute,
				DistanceFromStartKm: float64(p.DistanceFromStartKm),
			})
		}
		for _, s := range route.SnappedPois {
			cr.SnappedPois = append(cr.SnappedPois, cachedSnappedPoi{
				Poi:                 toCachedPoi(s.POI),
				DistanceFromPathM:   float64(s.DistanceFromPathM),
				DistanceFromStartKm: float64(s.DistanceFromStartKm),
			})
		}
		entry.Routes[i] = cr
	}
	return json.Marshal(entry)
}

func decodeEntry(data []byte, ttl time.Duration) ([]domain.Route, bool, error) {
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, err
	}
	if time.Since(entry.InsertedAt) > ttl {
		return nil, true, nil // expired
	}

	routes := make([]domain.Route, 0, len(entry.Routes))
	for _, cr := range entry.Routes {
		path, err := polyline.Decode(cr.Polyline)
		if err != nil {
			continue
		}
		route := domain.Route{
			ID:                cr.ID,
			DistanceKm:        geo.DistanceKm(cr.DistanceKm),
			EstimatedDuration: time.Duration(cr.EstimatedDurationS * float64(time.Second)),
			ElevationGainM:    cr.ElevationGainM,
			Polyline:          path,
			QualityScore:      cr.QualityScore,
			Metrics:           cr.Metrics,
			IsFallback:        cr.IsFallback,
			GeneratedAt:       cr.GeneratedAt,
		}
		for _, cp := range cr.Pois {
			poi, err := fromCachedPoi(cp.Poi)
			if err != nil {
				continue
			}
			route.Pois = append(route.Pois, domain.RoutePoi{
				POI: poi, OrderInRoute: cp.OrderInRoute,
				DistanceFromStartKm: geo.DistanceKm(cp.DistanceFromStartKm),
			})
		}
		for _, cs := range cr.SnappedPois {
			poi, err := fromCachedPoi(cs.Poi)
			if err != nil {
				continue
			}
			route.SnappedPois = append(route.SnappedPois, domain.SnappedPoi{
				POI: poi, DistanceFromPathM: geo.DistanceMeters(cs.DistanceFromPathM),
				DistanceFromStartKm: geo.DistanceKm(cs.DistanceFromStartKm),
			})
		}
		routes = append(routes, route)
	}
	return routes, false, nil
}
