// Package domain holds the route core's value types: POI, Route, and
// the request/response shapes that flow between the repository,
// waypoint engine, generator, snapping, and metrics components.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/triploop/routecore/internal/pkg/geo"
)

// PoiCategory is one of the 24 fixed tags forming the closed category
// set shared by cache keys, request bodies, and snapped-POI filtering.
type PoiCategory string

const (
	CategoryMonument      PoiCategory = "Monument"
	CategoryViewpoint     PoiCategory = "Viewpoint"
	CategoryPark          PoiCategory = "Park"
	CategoryMuseum        PoiCategory = "Museum"
	CategoryRestaurant    PoiCategory = "Restaurant"
	CategoryCafe          PoiCategory = "Cafe"
	CategoryHistoric      PoiCategory = "Historic"
	CategoryCultural      PoiCategory = "Cultural"
	CategoryWaterfront    PoiCategory = "Waterfront"
	CategoryWaterfall     PoiCategory = "Waterfall"
	CategoryNatureReserve PoiCategory = "NatureReserve"
	CategoryChurch        PoiCategory = "Church"
	CategoryCastle        PoiCategory = "Castle"
	CategoryBridge        PoiCategory = "Bridge"
	CategoryTower         PoiCategory = "Tower"
	CategoryPlaza         PoiCategory = "Plaza"
	CategoryFountain      PoiCategory = "Fountain"
	CategoryMarket        PoiCategory = "Market"
	CategoryArtwork       PoiCategory = "Artwork"
	CategoryLighthouse    PoiCategory = "Lighthouse"
	CategoryWinery        PoiCategory = "Winery"
	CategoryBrewery       PoiCategory = "Brewery"
	CategoryTheatre       PoiCategory = "Theatre"
	CategoryLibrary       PoiCategory = "Library"
)

// AllCategories is the closed 24-value category set in declaration
// order, used to validate inbound category lists.
var AllCategories = []PoiCategory{
	CategoryMonument, CategoryViewpoint, CategoryPark, CategoryMuseum,
	CategoryRestaurant, CategoryCafe, CategoryHistoric, CategoryCultural,
	CategoryWaterfront, CategoryWaterfall, CategoryNatureReserve, CategoryChurch,
	CategoryCastle, CategoryBridge, CategoryTower, CategoryPlaza,
	CategoryFountain, CategoryMarket, CategoryArtwork, CategoryLighthouse,
	CategoryWinery, CategoryBrewery, CategoryTheatre, CategoryLibrary,
}

func (c PoiCategory) Valid() bool {
	for _, known := range AllCategories {
		if known == c {
			return true
		}
	}
	return false
}

// POI is an immutable, read-only fact once inserted by the ingestion
// collaborator (out of scope here): the core never mutates a POI.
type POI struct {
	ID                     uuid.UUID
	Name                   string
	Category               PoiCategory
	Location               geo.Coordinates
	Popularity             int // 0..100
	Description            *string
	EstimatedVisitMinutes  *int
	OSMId                  *int64
	Metadata               map[string]string
	CreatedAt              time.Time
}

// DistanceFromKm returns the great-circle distance from center to the
// POI's location, the quantity the waypoint scoring engine (C5) uses
// for distance-suitability and rejection filters.
func (p POI) DistanceFromKm(center geo.Coordinates) geo.DistanceKm {
	return geo.HaversineDistance(center, p.Location).ToKm()
}
