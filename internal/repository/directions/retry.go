package directions

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	domainrepo "github.com/triploop/routecore/internal/domain/repository"
)

// retryOptions configures exponential backoff for upstream directions
// calls, grounded on NERVsystems-osmmcp's pkg/core/http.go WithRetry
// (adapted from slog/otel to this repo's zap logger, and dropping the
// tracing dependency the pack doesn't otherwise pull in).
type retryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

var defaultRetryOptions = retryOptions{
	MaxAttempts:  3,
	InitialDelay: 300 * time.Millisecond,
	MaxDelay:     5 * time.Second,
	Multiplier:   2.0,
}

// requestFactory builds a fresh *http.Request per attempt, since a
// request with a consumed body cannot be retried.
type requestFactory func() (*http.Request, error)

// doWithRetry executes the request built by factory, retrying
// retriable failures with exponential backoff. It classifies the final
// outcome into the DirectionsError taxonomy (spec.md §7) rather than
// returning a raw transport/HTTP error.
func doWithRetry(ctx context.Context, factory requestFactory, client *http.Client, opts retryOptions, logger *zap.Logger) (*http.Response, error) {
	var lastErr error
	delay := opts.InitialDelay

	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			logger.Debug("retrying directions request",
				zap.Int("attempt", attempt+1), zap.Duration("delay", delay), zap.Error(lastErr))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, domainrepo.NewDirectionsError(domainrepo.ErrKindTransport, "directions request cancelled", ctx.Err())
			}
			delay = time.Duration(float64(delay) * opts.Multiplier)
			if delay > opts.MaxDelay {
				delay = opts.MaxDelay
			}
		}

		req, err := factory()
		if err != nil {
			return nil, domainrepo.NewDirectionsError(domainrepo.ErrKindParse, "failed to build directions request", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = domainrepo.NewDirectionsError(domainrepo.ErrKindTransport, "directions transport error", err)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		derr := classifyStatus(resp.StatusCode)
		resp.Body.Close()
		lastErr = derr
		if !derr.Retriable {
			return nil, derr
		}
	}

	return nil, lastErr
}

func classifyStatus(status int) *domainrepo.DirectionsError {
	switch {
	case status == http.StatusTooManyRequests:
		return domainrepo.NewDirectionsError(domainrepo.ErrKindRateLimited, fmt.Sprintf("directions upstream rate limited (status %d)", status), nil)
	case status >= 500:
		return domainrepo.NewDirectionsError(domainrepo.ErrKindUpstream5xx, fmt.Sprintf("directions upstream server error (status %d)", status), nil)
	case status >= 400:
		return domainrepo.NewDirectionsError(domainrepo.ErrKindUpstream4xx, fmt.Sprintf("directions upstream rejected request (status %d)", status), nil)
	default:
		return domainrepo.NewDirectionsError(domainrepo.ErrKindTransport, fmt.Sprintf("unexpected directions upstream status %d", status), nil)
	}
}
