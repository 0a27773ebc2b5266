package waypoint

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triploop/routecore/internal/domain"
	"github.com/triploop/routecore/internal/pkg/geo"
)

func coord(t *testing.T, lat, lon float64) geo.Coordinates {
	t.Helper()
	c, err := geo.NewCoordinates(lat, lon)
	require.NoError(t, err)
	return c
}

func defaultWeights() Weights {
	return Weights{Distance: 0.6, Quality: 0.2, Angular: 0.1, Diversity: 0.05, Variation: 0.05}
}

func TestSelectK(t *testing.T) {
	cases := []struct {
		name     string
		target   float64
		poolSize int
		want     int
	}{
		{"large distance large pool", 12, 8, 3},
		{"medium distance medium pool", 6, 5, 3},
		{"large distance small pool", 12, 3, 2},
		{"small distance", 3, 10, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SelectK(tc.target, tc.poolSize))
		})
	}
}

func TestBuildCandidates_RejectsTooCloseAndTooFar(t *testing.T) {
	start := coord(t, 48.8566, 2.3522)
	pool := []domain.POI{
		{ID: mustUUID(), Name: "too close", Category: domain.CategoryCafe, Location: coord(t, 48.85665, 2.35222), Popularity: 50},
		{ID: mustUUID(), Name: "too far", Location: coord(t, 49.5, 3.5), Category: domain.CategoryCafe, Popularity: 50},
		{ID: mustUUID(), Name: "just right", Location: coord(t, 48.86, 2.3522), Category: domain.CategoryMuseum, Popularity: 80},
	}

	candidates := BuildCandidates(start, 5.0, pool, false, defaultWeights())
	require.Len(t, candidates, 1)
	assert.Equal(t, "just right", candidates[0].POI.Name)
}

func TestBuildCandidates_HiddenGemsInvertsQuality(t *testing.T) {
	start := coord(t, 48.8566, 2.3522)
	pool := []domain.POI{
		{ID: mustUUID(), Name: "popular", Location: coord(t, 48.86, 2.3522), Category: domain.CategoryMuseum, Popularity: 90},
	}
	normal := BuildCandidates(start, 5.0, pool, false, defaultWeights())
	gems := BuildCandidates(start, 5.0, pool, true, defaultWeights())

	require.Len(t, normal, 1)
	require.Len(t, gems, 1)
	assert.Greater(t, normal[0].baseScore, gems[0].baseScore)
}

func TestEnumerateCombinations_RejectsTooClosePairs(t *testing.T) {
	start := coord(t, 48.8566, 2.3522)
	pool := []domain.POI{
		{ID: mustUUID(), Name: "a", Location: coord(t, 48.86, 2.3522), Category: domain.CategoryMuseum, Popularity: 80},
		{ID: mustUUID(), Name: "b", Location: coord(t, 48.86001, 2.35221), Category: domain.CategoryCafe, Popularity: 70},
	}
	candidates := BuildCandidates(start, 5.0, pool, false, defaultWeights())
	require.Len(t, candidates, 2)

	tuples := EnumerateCombinations(candidates, 2, 0, defaultWeights(), 0.3, 20)
	assert.Empty(t, tuples, "the two candidates are well under MIN_POI_SEPARATION apart")
}

func TestEnumerateCombinations_AcceptsWellSeparatedPair(t *testing.T) {
	start := coord(t, 48.8566, 2.3522)
	pool := []domain.POI{
		{ID: mustUUID(), Name: "north", Location: coord(t, 48.86, 2.3522), Category: domain.CategoryMuseum, Popularity: 80},
		{ID: mustUUID(), Name: "south", Location: coord(t, 48.8532, 2.3522), Category: domain.CategoryCafe, Popularity: 70},
	}
	candidates := BuildCandidates(start, 5.0, pool, false, defaultWeights())
	require.Len(t, candidates, 2)

	tuples := EnumerateCombinations(candidates, 2, 0, defaultWeights(), 0.3, 20)
	require.Len(t, tuples, 1)
	assert.Len(t, tuples[0].Members, 2)
}

func TestEnumerateCombinations_CapsAtMaxCombinations(t *testing.T) {
	start := coord(t, 48.8566, 2.3522)
	var pool []domain.POI
	for i := 0; i < 8; i++ {
		lat := 48.86 + float64(i)*0.002
		pool = append(pool, domain.POI{
			ID: mustUUID(), Name: "p", Location: coord(t, lat, 2.3522+float64(i)*0.01),
			Category: domain.CategoryMuseum, Popularity: 60,
		})
	}
	candidates := BuildCandidates(start, 20.0, pool, false, defaultWeights())
	tuples := EnumerateCombinations(candidates, 2, 0, defaultWeights(), 0.05, 5)
	assert.LessOrEqual(t, len(tuples), 5)
}

func TestEnumerateCombinations_VariationSaltChangesOrderingAcrossAttempts(t *testing.T) {
	start := coord(t, 48.8566, 2.3522)
	var pool []domain.POI
	for i := 0; i < 6; i++ {
		lat := 48.86 + float64(i)*0.003
		lon := 2.3522 + float64(i)*0.02
		if i%2 == 1 {
			lon = 2.3522 - float64(i)*0.02
		}
		pool = append(pool, domain.POI{
			ID: mustUUID(), Name: "p", Location: coord(t, lat, lon),
			Category: domain.CategoryMuseum, Popularity: 50 + i*5,
		})
	}
	candidates := BuildCandidates(start, 20.0, pool, false, defaultWeights())

	attempt0 := EnumerateCombinations(candidates, 2, 0, defaultWeights(), 0.05, 20)
	attempt1 := EnumerateCombinations(candidates, 2, 1, defaultWeights(), 0.05, 20)

	require.NotEmpty(t, attempt0)
	require.NotEmpty(t, attempt1)
	// Scores for at least one combination should differ given different
	// variation salt, even though the candidate pool is identical.
	differs := false
	for i := range attempt0 {
		if i < len(attempt1) && attempt0[i].Score != attempt1[i].Score {
			differs = true
			break
		}
	}
	assert.True(t, differs)
}

func mustUUID() uuid.UUID { return uuid.New() }

