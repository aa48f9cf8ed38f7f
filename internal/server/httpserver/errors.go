package httpserver

import (
	"errors"
	"net/http"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/common"
)

// statusFor maps a service error to an HTTP status and a fixed client
// message. The class is checked before the cause, so a login error wrapping
// both ErrInvalidCredentials and ErrorNotFound is a 401.
//
//	ErrValidation                   400
//	ErrInvalidCredentials           401
//	ErrUnauthenticated              401
//	ErrorNotFound                   404
//	ErrAlreadyExists, ErrConstraint 409
//	ErrNotImplemented               501
//	ErrStore, anything else         500
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, common.ErrNotImplemented):
		return http.StatusNotImplemented, common.NotImplementedPlaceholder
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrAlreadyExists), errors.Is(err, common.ErrConstraint):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
