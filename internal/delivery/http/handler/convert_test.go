package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triploop/routecore/internal/delivery/http/dto"
	"github.com/triploop/routecore/internal/domain"
	apperrors "github.com/triploop/routecore/internal/pkg/errors"
	validatorpkg "github.com/triploop/routecore/internal/pkg/validator"
)

func TestToDomainRequest_MapsWalkingModeAndStart(t *testing.T) {
	req := dto.LoopRequest{Lat: 48.85, Lng: 2.35, DistanceKm: 5, Mode: "walking"}
	loopReq, appErr := toDomainRequest(req)
	require.Nil(t, appErr)
	assert.Equal(t, domain.ModeWalking, loopReq.Mode)
	assert.Equal(t, geoCoordLat(loopReq), 48.85)
}

func TestToDomainRequest_RejectsUnknownCategory(t *testing.T) {
	req := dto.LoopRequest{
		Lat: 48.85, Lng: 2.35, DistanceKm: 5, Mode: "cycling",
		Preferences: &dto.PreferencesParams{Categories: []string{"NotACategory"}},
	}
	_, appErr := toDomainRequest(req)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidCategories.Code, appErr.Code)
}

func TestToDomainRequest_AcceptsKnownCategory(t *testing.T) {
	req := dto.LoopRequest{
		Lat: 48.85, Lng: 2.35, DistanceKm: 5, Mode: "walking",
		Preferences: &dto.PreferencesParams{Categories: []string{"Park", "Museum"}},
	}
	loopReq, appErr := toDomainRequest(req)
	require.Nil(t, appErr)
	require.Len(t, loopReq.Preferences.Categories, 2)
}

func TestTranslateValidationError_MapsDistanceField(t *testing.T) {
	req := dto.LoopRequest{Lat: 48.85, Lng: 2.35, DistanceKm: 0.1, Mode: "walking"}
	err := validatorpkg.Validate(&req)
	require.Error(t, err)

	appErr := translateValidationError(err)
	assert.Equal(t, apperrors.ErrInvalidDistance.Code, appErr.Code)
}

func TestTranslateValidationError_NonValidatorErrorFallsBackToGeneric(t *testing.T) {
	appErr := translateValidationError(assert.AnError)
	assert.Equal(t, apperrors.ErrInvalidRequest.Code, appErr.Code)
}

func TestTranslateValidationError_RejectsZeroMaxAlternatives(t *testing.T) {
	zero := 0
	req := dto.LoopRequest{
		Lat: 48.85, Lng: 2.35, DistanceKm: 5, Mode: "walking",
		Preferences: &dto.PreferencesParams{MaxAlternatives: &zero},
	}
	err := validatorpkg.Validate(&req)
	require.Error(t, err)

	appErr := translateValidationError(err)
	assert.Equal(t, apperrors.ErrInvalidMaxAlternatives.Code, appErr.Code)
}

func TestToDomainRequest_RejectsExplicitEmptyCategoriesList(t *testing.T) {
	req := dto.LoopRequest{
		Lat: 48.85, Lng: 2.35, DistanceKm: 5, Mode: "walking",
		Preferences: &dto.PreferencesParams{Categories: []string{}},
	}
	_, appErr := toDomainRequest(req)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidCategories.Code, appErr.Code)
}

func TestToDomainRequest_AbsentCategoriesIsFine(t *testing.T) {
	req := dto.LoopRequest{
		Lat: 48.85, Lng: 2.35, DistanceKm: 5, Mode: "walking",
		Preferences: &dto.PreferencesParams{},
	}
	loopReq, appErr := toDomainRequest(req)
	require.Nil(t, appErr)
	assert.Nil(t, loopReq.Preferences.Categories)
}

func TestToDomainRequest_PresentMaxAlternativesIsThreaded(t *testing.T) {
	two := 2
	req := dto.LoopRequest{
		Lat: 48.85, Lng: 2.35, DistanceKm: 5, Mode: "walking",
		Preferences: &dto.PreferencesParams{MaxAlternatives: &two},
	}
	loopReq, appErr := toDomainRequest(req)
	require.Nil(t, appErr)
	assert.Equal(t, 2, loopReq.Preferences.MaxAlternatives)
}

func geoCoordLat(req domain.LoopRequest) float64 {
	return req.Start.Lat()
}
