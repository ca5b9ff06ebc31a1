package handlers

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/sws-safaris/booking-api/internal/errs"
)

// domainError translates the domain taxonomy into HTTP errors. Domain
// code stays HTTP-free; this is the only place the mapping lives.
func domainError(err error) error {
	switch {
	case errs.IsValidation(err):
		return huma.Error422UnprocessableEntity(err.Error())
	case errs.IsConflict(err):
		return huma.Error409Conflict(err.Error())
	case errs.IsNotFound(err):
		return huma.Error404NotFound(err.Error())
	case errs.IsState(err):
		return huma.Error400BadRequest(err.Error())
	default:
		return huma.Error500InternalServerError("Unexpected error: " + err.Error())
	}
}
