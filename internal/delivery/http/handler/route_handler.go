package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/delivery/http/dto"
	"github.com/triploop/routecore/internal/domain"
	"github.com/triploop/routecore/internal/generator"
	apperrors "github.com/triploop/routecore/internal/pkg/errors"
	"github.com/triploop/routecore/internal/pkg/geo"
	"github.com/triploop/routecore/internal/pkg/utils"
	validatorpkg "github.com/triploop/routecore/internal/pkg/validator"
)

// RouteHandler exposes the route generator orchestrator (C6) over HTTP.
type RouteHandler struct {
	gen    *generator.Generator
	logger *zap.Logger
}

func NewRouteHandler(gen *generator.Generator, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{gen: gen, logger: logger}
}

// GenerateLoop godoc
// @Summary Generate a walking or cycling loop route
// @Description Builds up to max_alternatives loop routes starting and ending at the given coordinate, targeting the requested distance.
// @Tags routes
// @Accept json
// @Produce json
// @Param request body dto.LoopRequest true "Loop request"
// @Success 200 {object} dto.LoopResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /routes/loop [post]
func (h *RouteHandler) GenerateLoop(c *fiber.Ctx) error {
	var req dto.LoopRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"cause": err.Error()}))
	}

	if err := validatorpkg.Validate(&req); err != nil {
		return utils.SendError(c, translateValidationError(err))
	}

	loopReq, appErr := toDomainRequest(req)
	if appErr != nil {
		return utils.SendError(c, appErr)
	}

	routes, err := h.gen.GenerateLoop(c.Context(), loopReq)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.LoopResponse{Routes: toDTORoutes(routes)}, &utils.Meta{Total: len(routes)})
}

// toDomainRequest converts the validated wire DTO into a domain.LoopRequest,
// rejecting unknown categories that struct tags can't express (spec.md §7).
func toDomainRequest(req dto.LoopRequest) (domain.LoopRequest, *apperrors.AppError) {
	start, err := geo.NewCoordinates(req.Lat, req.Lng)
	if err != nil {
		return domain.LoopRequest{}, apperrors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{"cause": err.Error()})
	}

	mode := domain.ModeWalking
	if req.Mode == string(domain.ModeCycling) {
		mode = domain.ModeCycling
	}

	prefs := domain.Preferences{}
	if req.Preferences != nil {
		prefs.HiddenGems = req.Preferences.HiddenGems
		if req.Preferences.MaxAlternatives != nil {
			prefs.MaxAlternatives = *req.Preferences.MaxAlternatives
		}

		if req.Preferences.Categories != nil {
			if len(req.Preferences.Categories) == 0 {
				return domain.LoopRequest{}, apperrors.ErrInvalidCategories.WithDetails(map[string]interface{}{"reason": "categories must not be an empty list when provided"})
			}
			categories := make([]domain.PoiCategory, 0, len(req.Preferences.Categories))
			for _, raw := range req.Preferences.Categories {
				cat := domain.PoiCategory(raw)
				if !cat.Valid() {
					return domain.LoopRequest{}, apperrors.ErrInvalidCategories.WithDetails(map[string]interface{}{"category": raw})
				}
				categories = append(categories, cat)
			}
			prefs.Categories = categories
		}
	}

	return domain.LoopRequest{
		Start:       start,
		DistanceKm:  geo.DistanceKm(req.DistanceKm),
		Mode:        mode,
		Preferences: prefs,
	}, nil
}

// translateValidationError maps go-playground/validator field errors to
// the closed taxonomy in spec.md §7 instead of leaking validator
// internals to the caller.
func translateValidationError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.ErrInvalidRequest
	}

	switch verrs[0].Field() {
	case "Lat", "Lng":
		return apperrors.ErrInvalidCoordinates
	case "DistanceKm":
		return apperrors.ErrInvalidDistance
	case "MaxAlternatives":
		return apperrors.ErrInvalidMaxAlternatives
	default:
		return apperrors.ErrInvalidRequest
	}
}
