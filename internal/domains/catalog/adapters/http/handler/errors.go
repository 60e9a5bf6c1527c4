package handler

import (
	"errors"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/application"
	"github.com/Apurer/go-dog-finder/internal/platform/validation"
	apierrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

// mapCatalogError turns catalog service errors into problem details.
func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	var fields validation.FieldErrors
	switch {
	case errors.Is(err, application.ErrUnauthenticated):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrTooMany):
		return apierrors.ErrTooLarge.WithDetail(err.Error()), true
	case errors.As(err, &fields):
		return apierrors.NewValidationProblem(fields), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// NewResponder builds the problem responder used by the catalog routes.
func NewResponder() *apierrors.Responder {
	return apierrors.NewResponder("", mapCatalogError)
}
