// Package common defines the sentinel errors shared by the repositories,
// services and the HTTP layer. Callers match them with errors.Is.
//
// Service errors usually wrap two sentinels at once, a client-facing class
// (ErrInvalidCredentials, ErrUnauthenticated, ...) and the precise cause
// (ErrAccountInactive, ErrTokenExpired, ...):
//
//	return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrAccountInactive)
//
// The HTTP layer only looks at the class, logs record the cause.
package common

import "errors"

var (
	// repository specific errors
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConstraint    = errors.New("constraint violation")

	// client-facing classes
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrStore              = errors.New("store error")
	ErrValidation         = errors.New("validation error")
	ErrNotImplemented     = errors.New("not implemented")

	// login causes
	ErrAccountInactive  = errors.New("account inactive")
	ErrPasswordMismatch = errors.New("password mismatch")

	// bearer extraction
	ErrMissingAuthHeader   = errors.New("missing authorization header")
	ErrMalformedAuthHeader = errors.New("malformed authorization header")

	// token codec
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")

	// attributes
	ErrBatchTooLarge = errors.New("attribute batch too large")
)

// Reason returns a stable, log friendly name for the most specific cause
// wrapped in err. It returns "unknown" for errors outside this package.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.name
		}
	}
	return "unknown"
}

// most specific first
var reasons = []struct {
	err  error
	name string
}{
	{ErrAccountInactive, "account_inactive"},
	{ErrPasswordMismatch, "password_mismatch"},
	{ErrMissingAuthHeader, "missing_auth_header"},
	{ErrMalformedAuthHeader, "malformed_auth_header"},
	{ErrTokenMalformed, "token_malformed"},
	{ErrTokenSignatureInvalid, "token_signature_invalid"},
	{ErrTokenExpired, "token_expired"},
	{ErrBatchTooLarge, "batch_too_large"},
	{ErrorNotFound, "not_found"},
	{ErrAlreadyExists, "already_exists"},
	{ErrConstraint, "constraint_violation"},
	{ErrStore, "store_error"},
	{ErrValidation, "validation_error"},
	{ErrNotImplemented, "not_implemented"},
	{ErrInvalidCredentials, "invalid_credentials"},
	{ErrUnauthenticated, "unauthenticated"},
}
