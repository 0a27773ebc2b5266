package errors

import "net/http"

// Sentinel errors matching the taxonomy in spec.md §7. Handlers call
// WithDetails on a copy to attach request-specific context before
// returning it to the caller.
var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid latitude/longitude provided",
		http.StatusBadRequest,
	)

	ErrInvalidDistance = New(
		"INVALID_DISTANCE",
		"Invalid target distance",
		http.StatusBadRequest,
	)

	ErrInvalidCategories = New(
		"INVALID_CATEGORIES",
		"Invalid or unknown POI category requested",
		http.StatusBadRequest,
	)

	ErrInvalidMaxAlternatives = New(
		"INVALID_MAX_ALTERNATIVES",
		"max_alternatives must be between 1 and 5",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	// ErrInsufficientPois is returned when the POI search around the start
	// finds fewer than two candidates, too few to build any loop.
	// Callers attach the observed POI count via WithDetails.
	ErrInsufficientPois = New(
		"INSUFFICIENT_POIS",
		"Not enough points of interest near the requested location to build a loop",
		http.StatusUnprocessableEntity,
	)

	ErrDirectionsUnavailable = New(
		"DIRECTIONS_UNAVAILABLE",
		"The directions provider is unavailable",
		http.StatusBadGateway,
	)

	ErrStorageError = New(
		"STORAGE_ERROR",
		"A repository operation failed",
		http.StatusInternalServerError,
	)

	ErrCancelled = New(
		"CANCELLED",
		"The request was cancelled",
		http.StatusRequestTimeout,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
