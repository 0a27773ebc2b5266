// Package waypoint implements the waypoint & scoring engine (C5):
// piecewise k-selection, weighted POI scoring relative to a target
// loop distance, hard rejection filters, and lazy k-combination
// enumeration bounded to a small count per tolerance level. Grounded
// directly on spec.md §4.4 — the teacher has no combinatorial search
// to adapt, so this package is new, built in the teacher's idiom
// (small composable functions, stdlib math/sort, no new dependency).
package waypoint

import (
	"math"
	"sort"

	"github.com/triploop/routecore/internal/domain"
	"github.com/triploop/routecore/internal/pkg/geo"
)

// Weights are the configurable scoring weights from spec.md §4.4,
// defaulting to distance 0.6, quality 0.2, angular 0.1, diversity 0.05,
// variation 0.05 (config.GeneratorConfig is the production source).
type Weights struct {
	Distance  float64
	Quality   float64
	Angular   float64
	Diversity float64
	Variation float64
}

// MinPOISeparationKm default, overridable via config.GeneratorConfig.
const DefaultMinPOISeparationKm = 0.3

// SelectK is the piecewise waypoint-count function (spec.md §4.4).
func SelectK(targetKm float64, poolSize int) int {
	if targetKm > 10 && poolSize >= 6 {
		return 3
	}
	if targetKm > 5 && poolSize >= 4 {
		return 3
	}
	return 2
}

// Candidate is a scored POI relative to a start point and target
// distance, prior to any combination being assembled.
type Candidate struct {
	POI         domain.POI
	DistanceKm  float64
	BearingDeg  float64
	baseScore   float64
	sortedIndex int
}

// BuildCandidates scores every POI in pool against the hard rejection
// filters and the distance-suitability/quality score terms (the two
// terms that do not depend on which other POIs end up in the same
// combination), then sorts descending by that base score.
func BuildCandidates(start geo.Coordinates, targetKm float64, pool []domain.POI, hiddenGems bool, w Weights) []Candidate {
	tau := targetKm / (2 * math.Pi)
	maxReachKm := targetKm / 1.5

	candidates := make([]Candidate, 0, len(pool))
	for _, poi := range pool {
		d := float64(geo.HaversineDistance(start, poi.Location)) / 1000.0
		if d < 0.2 || d > maxReachKm {
			continue
		}

		distScore := distanceSuitability(d, tau)
		quality := float64(poi.Popularity) / 100.0
		if hiddenGems {
			quality = 1 - quality
		}

		candidates = append(candidates, Candidate{
			POI:        poi,
			DistanceKm: d,
			BearingDeg: geo.Bearing(start, poi.Location),
			baseScore:  distScore*w.Distance + quality*w.Quality,
		})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].baseScore > candidates[j].baseScore })
	for i := range candidates {
		candidates[i].sortedIndex = i
	}
	return candidates
}

func distanceSuitability(d, tau float64) float64 {
	if tau <= 0 {
		return 0
	}
	if d <= tau {
		return math.Min(d, tau)/tau*0.8 + 0.2
	}
	return math.Max(0, 1-0.5*(d-tau)/tau)
}

// Tuple is a candidate k-combination ready for the generator's
// nearest-neighbour ordering and pre-directions geometric filter.
type Tuple struct {
	Members []Candidate
	Score   float64
}

// EnumerateCombinations lazily walks k-combinations of candidates in
// the order candidates are sorted (already descending by base score,
// so lexicographic index order approximates descending combination
// score — the nearest-neighbour tour ordering itself is the
// generator's job, not this package's), rejecting any combination that
// violates the pairwise separation or angular-spread hard filters, and
// stopping once maxCombinations have been accepted (spec.md §4.4/§5).
func EnumerateCombinations(candidates []Candidate, k int, attempt int, w Weights, minSeparationKm float64, maxCombinations int) []Tuple {
	if minSeparationKm <= 0 {
		minSeparationKm = DefaultMinPOISeparationKm
	}
	if k <= 0 || len(candidates) < k {
		return nil
	}
	minAngularDeg := 360.0 / float64(k+1)

	var accepted []Tuple
	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}

	for {
		if len(accepted) >= maxCombinations {
			break
		}
		combo := make([]Candidate, k)
		for i, idx := range indices {
			combo[i] = candidates[idx]
		}
		if passesHardFilters(combo, minSeparationKm, minAngularDeg) {
			accepted = append(accepted, Tuple{
				Members: combo,
				Score:   scoreCombination(combo, k, attempt, w),
			})
		}

		if !nextCombination(indices, len(candidates)) {
			break
		}
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].Score > accepted[j].Score })
	if len(accepted) > maxCombinations {
		accepted = accepted[:maxCombinations]
	}
	return accepted
}

func passesHardFilters(combo []Candidate, minSeparationKm, minAngularDeg float64) bool {
	for i := 0; i < len(combo); i++ {
		for j := i + 1; j < len(combo); j++ {
			sepM := geo.HaversineDistance(combo[i].POI.Location, combo[j].POI.Location)
			if float64(sepM)/1000.0 < minSeparationKm {
				return false
			}
			angDiff := geo.AngularDifference(combo[i].BearingDeg, combo[j].BearingDeg)
			if angDiff < minAngularDeg {
				return false
			}
		}
	}
	return true
}

// scoreCombination folds in the two terms that depend on the assembled
// combination — category diversity and angular-bucket coverage bonuses
// — plus the deterministic variation salt, on top of each member's
// base (distance+quality) score.
func scoreCombination(combo []Candidate, k int, attempt int, w Weights) float64 {
	bucketWidth := 360.0 / float64(k)
	seenCategories := map[domain.PoiCategory]bool{}
	seenBuckets := map[int]bool{}

	total := 0.0
	for _, c := range combo {
		total += c.baseScore

		if !seenCategories[c.POI.Category] {
			total += w.Diversity
			seenCategories[c.POI.Category] = true
		}

		bucket := int(math.Mod(c.BearingDeg, 360) / bucketWidth)
		if !seenBuckets[bucket] {
			total += w.Angular
			seenBuckets[bucket] = true
		}

		salt := float64((c.sortedIndex*3+attempt*11)%100) / 100.0
		total += salt * w.Variation
	}
	return total
}

// nextCombination advances indices (length k, strictly increasing, each
// < n) to the next combination in lexicographic order. Returns false
// when there is no next combination.
func nextCombination(indices []int, n int) bool {
	k := len(indices)
	i := k - 1
	for i >= 0 && indices[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	indices[i]++
	for j := i + 1; j < k; j++ {
		indices[j] = indices[j-1] + 1
	}
	return true
}
