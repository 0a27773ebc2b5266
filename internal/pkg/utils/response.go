// Package utils holds small cross-cutting HTTP response helpers shared
// by every handler, grounded on the teacher's internal/pkg/utils
// envelope shape.
package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/triploop/routecore/internal/pkg/errors"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type Meta struct {
	Total    int     `json:"total,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{Data: data, Meta: meta})
}

// SendError maps a *errors.AppError to its declared status code, and
// anything else to a generic 500 rather than leaking internal error text.
func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{Error: appErr})
	}
	return c.Status(500).JSON(ErrorResponse{Error: errors.ErrInternalServer})
}
