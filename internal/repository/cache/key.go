package cache

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/triploop/routecore/internal/domain"
)

// BuildKey constructs the canonical, bucketed cache key for a loop
// request (spec.md §4.2/§6): lat/lon rounded to 3 decimals, distance
// rounded to the nearest 0.5 km, mode, a sorted category list (or "*"
// when absent), and the hidden-gems flag. Order-independent over the
// category set and independent of any JSON whitespace, since it never
// touches JSON — it is a flat colon-joined string.
func BuildKey(req domain.LoopRequest) string {
	lat3 := roundTo(req.Start.Lat(), 3)
	lon3 := roundTo(req.Start.Lon(), 3)
	dist := roundToNearest(float64(req.DistanceKm), 0.5)

	cats := "*"
	if len(req.Preferences.Categories) > 0 {
		sorted := make([]string, len(req.Preferences.Categories))
		for i, c := range req.Preferences.Categories {
			sorted[i] = string(c)
		}
		sort.Strings(sorted)
		cats = strings.Join(sorted, ",")
	}

	gems := "pop"
	if req.Preferences.HiddenGems {
		gems = "gems"
	}

	return fmt.Sprintf("route:loop:%.3f:%.3f:%.1f:%s:%s:%s",
		lat3, lon3, dist, req.Mode, cats, gems)
}

func roundTo(v float64, decimals int) float64 {
	mult := math.Pow(10, float64(decimals))
	return math.Round(v*mult) / mult
}

func roundToNearest(v, step float64) float64 {
	return math.Round(v/step) * step
}
