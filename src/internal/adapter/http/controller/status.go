package controller

import (
	"errors"
	"net/http"

	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
)

// statusForError maps service sentinels onto HTTP status codes.
// Anything unclassified is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, commons.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, commons.ErrAccountNotFound),
		errors.Is(err, commons.ErrCardNotFound),
		errors.Is(err, commons.ErrAtmNotFound):
		return http.StatusNotFound
	case errors.Is(err, commons.ErrInvalidPin),
		errors.Is(err, commons.ErrTokenMissing),
		errors.Is(err, commons.ErrTokenExpired),
		errors.Is(err, commons.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, commons.ErrInsufficientFunds),
		errors.Is(err, commons.ErrLimitExceeded),
		errors.Is(err, commons.ErrAccountInactive),
		errors.Is(err, commons.ErrCardBlocked),
		errors.Is(err, commons.ErrCardExpired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, commons.ErrDeviceFailure),
		errors.Is(err, commons.ErrDeviceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
