package directions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/config"
	"github.com/triploop/routecore/internal/domain"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
	"github.com/triploop/routecore/internal/pkg/geo"
)

func mustCoords(t *testing.T, pts [][2]float64) []geo.Coordinates {
	t.Helper()
	out := make([]geo.Coordinates, len(pts))
	for i, p := range pts {
		c, err := geo.NewCoordinates(p[0], p[1])
		require.NoError(t, err)
		out[i] = c
	}
	return out
}

func TestClient_GetDirections_Success(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"Ok","routes":[{"geometry":"_p~iF~ps|U_ulLnnqC_mqNvxq`+"`"+`@","distance":1500.5,"duration":900}]}`))
	}))
	defer server.Close()

	cfg := &config.DirectionsConfig{
		BaseURL: server.URL, AccessToken: "tok", WalkingProfile: "walking",
		CyclingProfile: "cycling", RequestTimeout: 5_000_000_000, MaxWaypoints: 25,
	}
	c := New(cfg, logger)

	waypoints := mustCoords(t, [][2]float64{{41.3851, 2.1734}, {41.39, 2.18}, {41.3851, 2.1734}})
	result, err := c.GetDirections(context.Background(), waypoints, domain.ModeWalking)

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, geo.DistanceMeters(1500.5), result.TotalDistanceM)
	assert.Equal(t, int64(900), result.TotalDurationS)
	assert.NotEmpty(t, result.Polyline)
}

func TestClient_GetDirections_TooFewWaypoints(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	cfg := &config.DirectionsConfig{BaseURL: "https://example.com", WalkingProfile: "walking", MaxWaypoints: 25}
	c := New(cfg, logger)

	_, err := c.GetDirections(context.Background(), mustCoords(t, [][2]float64{{1, 1}}), domain.ModeWalking)
	require.Error(t, err)

	var derr *domainrepo.DirectionsError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainrepo.ErrKindParse, derr.Kind)
	assert.False(t, derr.Retriable)
}

func TestClient_GetDirections_UpstreamErrorIsFatal4xx(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"InvalidInput","message":"bad coords"}`))
	}))
	defer server.Close()

	cfg := &config.DirectionsConfig{
		BaseURL: server.URL, WalkingProfile: "walking", RequestTimeout: 5_000_000_000, MaxWaypoints: 25,
	}
	c := New(cfg, logger)

	waypoints := mustCoords(t, [][2]float64{{1, 1}, {2, 2}})
	_, err := c.GetDirections(context.Background(), waypoints, domain.ModeWalking)
	require.Error(t, err)

	var derr *domainrepo.DirectionsError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainrepo.ErrKindUpstream4xx, derr.Kind)
	assert.False(t, derr.Retriable)
}

func TestClient_GetDirections_RateLimitedIsRetriable(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := &config.DirectionsConfig{
		BaseURL: server.URL, WalkingProfile: "walking", RequestTimeout: 5_000_000_000, MaxWaypoints: 25,
	}
	c := New(cfg, logger)

	waypoints := mustCoords(t, [][2]float64{{1, 1}, {2, 2}})
	_, err := c.GetDirections(context.Background(), waypoints, domain.ModeWalking)
	require.Error(t, err)
	assert.Equal(t, defaultRetryOptions.MaxAttempts, attempts)

	var derr *domainrepo.DirectionsError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainrepo.ErrKindRateLimited, derr.Kind)
	assert.True(t, derr.Retriable)
}

func TestClient_ProxiedTransportSelectedWhenProxyBaseURLSet(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	var sawAuthHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuthHeader = r.Header.Get("Authorization")
		assert.NotContains(t, r.URL.RawQuery, "access_token")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"Ok","routes":[{"geometry":"_p~iF~ps|U","distance":100,"duration":60}]}`))
	}))
	defer server.Close()

	cfg := &config.DirectionsConfig{
		ProxyBaseURL: server.URL, BearerToken: "secret-bearer",
		WalkingProfile: "walking", RequestTimeout: 5_000_000_000, MaxWaypoints: 25,
	}
	c := New(cfg, logger)

	waypoints := mustCoords(t, [][2]float64{{1, 1}, {2, 2}})
	_, err := c.GetDirections(context.Background(), waypoints, domain.ModeWalking)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-bearer", sawAuthHeader)
}
