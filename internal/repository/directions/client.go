// Package directions implements the external turn-by-turn provider
// boundary (C4): a stateless request/response client with Direct and
// Proxied transport variants, retry/backoff, and request metering.
// Grounded on the teacher's internal/infrastructure/mapbox/client.go
// for the request-shaping and logging idiom, generalized from a
// matrix-only client to a full directions call and given the
// NERVsystems-osmmcp retry treatment.
package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/config"
	"github.com/triploop/routecore/internal/domain"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/pkg/polyline"
)

const maxWaypointsHardLimit = 25

// client is the DirectionsClient implementation. Which transport it
// uses is fixed at construction: a configured ProxyBaseURL selects
// Proxied (bearer-token auth against an internal proxy that holds the
// real upstream credentials), otherwise Direct (access-token query
// param straight to the provider), per SPEC_FULL.md §3.
type client struct {
	httpClient     *http.Client
	baseURL        string
	proxied        bool
	accessToken    string
	bearerToken    string
	walkingProfile string
	cyclingProfile string
	maxWaypoints   int
	logger         *zap.Logger
}

func New(cfg *config.DirectionsConfig, logger *zap.Logger) domainrepo.DirectionsClient {
	baseURL := cfg.BaseURL
	proxied := cfg.ProxyBaseURL != ""
	if proxied {
		baseURL = cfg.ProxyBaseURL
	}

	maxWaypoints := cfg.MaxWaypoints
	if maxWaypoints <= 0 || maxWaypoints > maxWaypointsHardLimit {
		maxWaypoints = maxWaypointsHardLimit
	}

	return &client{
		httpClient:     &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:        baseURL,
		proxied:        proxied,
		accessToken:    cfg.AccessToken,
		bearerToken:    cfg.BearerToken,
		walkingProfile: cfg.WalkingProfile,
		cyclingProfile: cfg.CyclingProfile,
		maxWaypoints:   maxWaypoints,
		logger:         logger,
	}
}

func (c *client) profileFor(mode domain.Mode) string {
	if mode == domain.ModeCycling {
		return c.cyclingProfile
	}
	return c.walkingProfile
}

// directionsAPIResponse is the upstream wire shape: a Mapbox
// Directions-v5-compatible envelope with a polyline-encoded geometry
// per route (spec.md §4.3/§6).
type directionsAPIResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string  `json:"geometry"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
	Message string `json:"message"`
}

func (c *client) GetDirections(ctx context.Context, waypoints []geo.Coordinates, mode domain.Mode) (*domainrepo.DirectionsResult, error) {
	if len(waypoints) < 2 {
		return nil, domainrepo.NewDirectionsError(domainrepo.ErrKindParse, "at least 2 waypoints are required", nil)
	}
	if len(waypoints) > c.maxWaypoints {
		return nil, domainrepo.NewDirectionsError(domainrepo.ErrKindParse,
			fmt.Sprintf("waypoint count %d exceeds provider limit of %d", len(waypoints), c.maxWaypoints), nil)
	}

	url := c.buildURL(waypoints, mode)

	factory := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if c.proxied {
			req.Header.Set("Authorization", "Bearer "+c.bearerToken)
		}
		return req, nil
	}

	start := time.Now()
	resp, err := doWithRetry(ctx, factory, c.httpClient, defaultRetryOptions, c.logger)
	requestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(outcomeFor(err)).Inc()
		c.logger.Error("directions request failed", zap.Error(err), zap.Int("waypoints", len(waypoints)))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues("fatal_error").Inc()
		return nil, domainrepo.NewDirectionsError(domainrepo.ErrKindParse, "failed to read directions response body", err)
	}

	var apiResp directionsAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		requestsTotal.WithLabelValues("fatal_error").Inc()
		return nil, domainrepo.NewDirectionsError(domainrepo.ErrKindParse, "failed to decode directions response", err)
	}
	if apiResp.Code != "Ok" || len(apiResp.Routes) == 0 {
		requestsTotal.WithLabelValues("fatal_error").Inc()
		return nil, domainrepo.NewDirectionsError(domainrepo.ErrKindUpstream4xx,
			fmt.Sprintf("directions provider returned code %q: %s", apiResp.Code, apiResp.Message), nil)
	}

	route := apiResp.Routes[0]
	path, err := polyline.Decode(route.Geometry)
	if err != nil {
		requestsTotal.WithLabelValues("fatal_error").Inc()
		return nil, domainrepo.NewDirectionsError(domainrepo.ErrKindParse, "failed to decode directions polyline geometry", err)
	}

	requestsTotal.WithLabelValues("ok").Inc()
	c.logger.Debug("directions request successful",
		zap.Int("waypoints", len(waypoints)), zap.Float64("distance_m", route.Distance))

	return &domainrepo.DirectionsResult{
		Polyline:       path,
		TotalDistanceM: geo.DistanceMeters(route.Distance),
		TotalDurationS: int64(route.Duration),
	}, nil
}

func (c *client) buildURL(waypoints []geo.Coordinates, mode domain.Mode) string {
	coords := make([]string, len(waypoints))
	for i, w := range waypoints {
		coords[i] = fmt.Sprintf("%f,%f", w.Lon(), w.Lat())
	}
	coordsStr := strings.Join(coords, ";")

	url := fmt.Sprintf("%s/directions/v5/%s/%s?geometries=polyline&overview=full",
		c.baseURL, c.profileFor(mode), coordsStr)
	if !c.proxied {
		url += "&access_token=" + c.accessToken
	}
	return url
}

func outcomeFor(err error) string {
	if derr, ok := err.(*domainrepo.DirectionsError); ok && derr.Retriable {
		return "retriable_error"
	}
	return "fatal_error"
}
