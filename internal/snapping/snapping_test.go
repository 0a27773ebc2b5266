package snapping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/domain"
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/pkg/polyline"
)

type fakeRepo struct {
	pois []domain.POI
}

func (f *fakeRepo) FindWithinRadius(context.Context, geo.Coordinates, geo.RadiusMeters, []domain.PoiCategory, int) ([]domain.POI, error) {
	return nil, nil
}

func (f *fakeRepo) FindInBbox(_ context.Context, bbox geo.BoundingBox, _ []domain.PoiCategory, _ int) ([]domain.POI, error) {
	var out []domain.POI
	for _, p := range f.pois {
		if bbox.Contains(p.Location) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Insert(context.Context, domain.POI) (uuid.UUID, error) { return uuid.Nil, nil }
func (f *fakeRepo) Count(context.Context) (int64, error)                 { return int64(len(f.pois)), nil }

func coord(t *testing.T, lat, lon float64) geo.Coordinates {
	t.Helper()
	c, err := geo.NewCoordinates(lat, lon)
	require.NoError(t, err)
	return c
}

// straightPath runs due east along a fixed latitude, long enough for
// the 80 m / 150 m perpendicular-distance scenario from spec.md §8.
func straightPath(t *testing.T) polyline.Path {
	return polyline.Path{
		coord(t, 48.8566, 2.30),
		coord(t, 48.8566, 2.40),
	}
}

func TestSnap_RetainsWithinRadiusExcludesBeyond(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	path := straightPath(t)

	// ~0.00072 deg lat ≈ 80 m at this latitude; ~0.00135 deg ≈ 150 m.
	near := domain.POI{ID: uuid.New(), Name: "near", Category: domain.CategoryCafe, Location: coord(t, 48.8566+0.00072, 2.35), Popularity: 50}
	far := domain.POI{ID: uuid.New(), Name: "far", Category: domain.CategoryCafe, Location: coord(t, 48.8566+0.00135, 2.35), Popularity: 50}

	repo := &fakeRepo{pois: []domain.POI{near, far}}
	svc := New(repo, 100, logger)

	snapped, err := svc.Snap(context.Background(), path, nil, nil)
	require.NoError(t, err)
	require.Len(t, snapped, 1)
	assert.Equal(t, "near", snapped[0].POI.Name)
	assert.InDelta(t, 80, float64(snapped[0].DistanceFromPathM), 10)
}

func TestSnap_ExcludesUsedWaypoints(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	path := straightPath(t)

	poi := domain.POI{ID: uuid.New(), Name: "waypoint", Category: domain.CategoryCafe, Location: coord(t, 48.8566+0.0003, 2.35), Popularity: 50}
	repo := &fakeRepo{pois: []domain.POI{poi}}
	svc := New(repo, 100, logger)

	used := map[uuid.UUID]bool{poi.ID: true}
	snapped, err := svc.Snap(context.Background(), path, nil, used)
	require.NoError(t, err)
	assert.Empty(t, snapped)
}

func TestSnap_EmptyPathReturnsEmptyWithoutError(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	repo := &fakeRepo{}
	svc := New(repo, 100, logger)

	snapped, err := svc.Snap(context.Background(), polyline.Path{}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, snapped)
}

func TestSnap_OrdersByArclength(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	path := straightPath(t)

	farAlong := domain.POI{ID: uuid.New(), Name: "far-along", Category: domain.CategoryCafe, Location: coord(t, 48.8566+0.0003, 2.39), Popularity: 50}
	nearStart := domain.POI{ID: uuid.New(), Name: "near-start", Category: domain.CategoryCafe, Location: coord(t, 48.8566+0.0003, 2.31), Popularity: 50}

	repo := &fakeRepo{pois: []domain.POI{farAlong, nearStart}}
	svc := New(repo, 100, logger)

	snapped, err := svc.Snap(context.Background(), path, nil, nil)
	require.NoError(t, err)
	require.Len(t, snapped, 2)
	assert.Equal(t, "near-start", snapped[0].POI.Name)
	assert.Equal(t, "far-along", snapped[1].POI.Name)
}
