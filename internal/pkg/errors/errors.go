package errors

import "fmt"

// AppError is the HTTP-facing error shape returned at the outer surface.
// It is distinct from repository.DirectionsError (internal/domain/repository),
// which carries the retriable/fatal
// taxonomy for the directions-client boundary.
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

// WithDetails returns a copy of e carrying the given details, leaving the
// sentinel error untouched so callers can safely reuse package-level vars.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}
