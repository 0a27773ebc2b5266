package repository

import (
	"context"
	"fmt"

	"github.com/triploop/routecore/internal/domain"
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/pkg/polyline"
)

// DirectionsResult is the normalized, decoded response from the
// external turn-by-turn provider (C4).
type DirectionsResult struct {
	Polyline        polyline.Path
	TotalDistanceM  geo.DistanceMeters
	TotalDurationS  int64
}

// ErrorKind is the directions-boundary failure taxonomy (spec.md §4.3),
// distinct from the HTTP-facing errors.AppError.
type ErrorKind string

const (
	ErrKindTransport   ErrorKind = "Transport"
	ErrKindUpstream4xx ErrorKind = "Upstream4xx"
	ErrKindUpstream5xx ErrorKind = "Upstream5xx"
	ErrKindRateLimited ErrorKind = "RateLimited"
	ErrKindParse       ErrorKind = "Parse"
)

// DirectionsError carries the retriable/fatal distinction the
// generator's tolerance-escalation loop needs to decide whether to
// retry a tuple or abandon it.
type DirectionsError struct {
	Kind      ErrorKind
	Retriable bool
	Message   string
	Cause     error
}

func (e *DirectionsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("directions error [%s]: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("directions error [%s]: %s", e.Kind, e.Message)
}

func (e *DirectionsError) Unwrap() error { return e.Cause }

func NewDirectionsError(kind ErrorKind, message string, cause error) *DirectionsError {
	retriable := kind == ErrKindTransport || kind == ErrKindUpstream5xx || kind == ErrKindRateLimited
	return &DirectionsError{Kind: kind, Retriable: retriable, Message: message, Cause: cause}
}

// DirectionsClient is a stateless request/response boundary (C4). It
// must not interpret waypoints beyond formatting them, and must not
// cache internally.
type DirectionsClient interface {
	// GetDirections requests a route through waypoints (length 2..25,
	// first and last identical for a loop) in the given mode.
	GetDirections(ctx context.Context, waypoints []geo.Coordinates, mode domain.Mode) (*DirectionsResult, error)
}
