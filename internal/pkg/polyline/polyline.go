// Package polyline provides the route-geometry helpers shared by the
// snapping service (C7) and route metrics (C8): perpendicular segment
// distance, arclength, convex hull area/perimeter, and encode/decode to
// Google's polyline5 text form for cache storage.
package polyline

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/convexhull"
	"github.com/paulmach/orb/planar"
	gopolyline "github.com/twpayne/go-polyline"

	"github.com/triploop/routecore/internal/pkg/geo"
)

// Path is an ordered sequence of coordinates describing a route's shape,
// as returned by the directions client and stitched by the generator.
type Path []geo.Coordinates

func toOrbPoint(c geo.Coordinates) orb.Point {
	return orb.Point{c.Lon(), c.Lat()}
}

// Encode serializes a Path to Google's polyline5 text form, the shape
// the route cache (C3) stores instead of raw JSON float arrays.
func Encode(p Path) string {
	coords := make([][]float64, len(p))
	for i, c := range p {
		coords[i] = []float64{c.Lat(), c.Lon()}
	}
	return string(gopolyline.EncodeCoords(nil, coords))
}

// Decode parses a polyline5 string back into a Path.
func Decode(s string) (Path, error) {
	coords, _, err := gopolyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	path := make(Path, len(coords))
	for i, c := range coords {
		coord, err := geo.NewCoordinates(c[0], c[1])
		if err != nil {
			return nil, err
		}
		path[i] = coord
	}
	return path, nil
}

// DistanceToSegment returns the minimum perpendicular distance from
// point to the segment [a, b], used by the snapping service to decide
// whether a POI lies within the snap corridor of a route leg.
func DistanceToSegment(point, a, b geo.Coordinates) geo.DistanceMeters {
	p := toOrbPoint(point)
	pa := toOrbPoint(a)
	pb := toOrbPoint(b)

	dx := pb[0] - pa[0]
	dy := pb[1] - pa[1]

	if dx == 0 && dy == 0 {
		return geo.HaversineDistance(point, a)
	}

	t := ((p[0]-pa[0])*dx + (p[1]-pa[1])*dy) / (dx*dx + dy*dy)

	switch {
	case t < 0:
		return geo.HaversineDistance(point, a)
	case t > 1:
		return geo.HaversineDistance(point, b)
	default:
		proj, _ := geo.NewCoordinates(pa[1]+t*dy, pa[0]+t*dx)
		return geo.HaversineDistance(point, proj)
	}
}

// Arclength returns the cumulative distance along p up to and including
// vertex index i (0 at the first vertex); TotalLength is built on it.
func Arclength(p Path, i int) geo.DistanceMeters {
	var total geo.DistanceMeters
	for j := 1; j <= i && j < len(p); j++ {
		total += geo.HaversineDistance(p[j-1], p[j])
	}
	return total
}

// TotalLength returns the full length of p.
func TotalLength(p Path) geo.DistanceMeters {
	if len(p) == 0 {
		return 0
	}
	return Arclength(p, len(p)-1)
}

// ConvexHullAreaPerimeter returns the planar area (m²) and perimeter (m)
// of the convex hull of p's points, the inputs to the circularity and
// convexity route metrics (C8): circularity = 4π·area / perimeter².
//
// orb's planar package operates in projected-plane units; since loop
// routes span at most a few kilometres the small-angle distortion from
// treating lon/lat degrees as a local planar frame is negligible for a
// ratio metric like circularity, so points are rescaled to a local
// metre frame around their centroid before hulling.
func ConvexHullAreaPerimeter(p Path) (areaM2, perimeterM float64) {
	if len(p) < 3 {
		return 0, 0
	}

	centroid := centroidOf(p)
	mp := make(orb.MultiPoint, len(p))
	for i, c := range p {
		x := float64(geo.HaversineDistance(centroid, mustCoord(centroid.Lat(), c.Lon()))) * signOf(c.Lon()-centroid.Lon())
		y := float64(geo.HaversineDistance(centroid, mustCoord(c.Lat(), centroid.Lon()))) * signOf(c.Lat()-centroid.Lat())
		mp[i] = orb.Point{x, y}
	}

	hull := convexhull.New(mp)
	ring, ok := hull.(orb.Ring)
	if !ok || len(ring) < 3 {
		return 0, 0
	}

	poly := orb.Polygon{ring}
	area := math.Abs(planar.Area(poly))

	perimeter := 0.0
	for i := 1; i < len(ring); i++ {
		perimeter += planar.Distance(ring[i-1], ring[i])
	}
	if len(ring) > 0 {
		perimeter += planar.Distance(ring[len(ring)-1], ring[0])
	}

	return area, perimeter
}

// Circularity returns 4π·area/perimeter², 1.0 for a perfect circle.
func Circularity(p Path) float64 {
	area, perimeter := ConvexHullAreaPerimeter(p)
	if perimeter == 0 {
		return 0
	}
	return 4 * math.Pi * area / (perimeter * perimeter)
}

// PolygonArea returns the planar area (m²) enclosed by p treated as a
// closed ring (first == last for a loop), in the same local metre frame
// used by ConvexHullAreaPerimeter.
func PolygonArea(p Path) float64 {
	if len(p) < 3 {
		return 0
	}
	centroid := centroidOf(p)
	ring := make(orb.Ring, len(p))
	for i, c := range p {
		x := float64(geo.HaversineDistance(centroid, mustCoord(centroid.Lat(), c.Lon()))) * signOf(c.Lon()-centroid.Lon())
		y := float64(geo.HaversineDistance(centroid, mustCoord(c.Lat(), centroid.Lon()))) * signOf(c.Lat()-centroid.Lat())
		ring[i] = orb.Point{x, y}
	}
	return math.Abs(planar.Area(orb.Polygon{ring}))
}

// Convexity returns area(hull) / area_covered_by_polyline_envelope per
// spec: 1.0 means the route's own footprint is already convex.
func Convexity(p Path) float64 {
	envelope := PolygonArea(p)
	if envelope == 0 {
		return 0
	}
	hullArea, _ := ConvexHullAreaPerimeter(p)
	return hullArea / envelope
}

func centroidOf(p Path) geo.Coordinates {
	var sumLat, sumLon float64
	for _, c := range p {
		sumLat += c.Lat()
		sumLon += c.Lon()
	}
	n := float64(len(p))
	c, _ := geo.NewCoordinates(sumLat/n, sumLon/n)
	return c
}

func mustCoord(lat, lon float64) geo.Coordinates {
	c, _ := geo.NewCoordinates(lat, lon)
	return c
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
