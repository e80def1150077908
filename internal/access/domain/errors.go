package domain

import (
	"github.com/allisson/passvault/internal/errors"
)

// Key resolution denials.
var (
	// ErrAuthenticationFailure indicates the master secret did not verify, or the user
	// does not exist. The two cases are deliberately indistinguishable.
	ErrAuthenticationFailure = errors.Wrap(errors.ErrUnauthorized, "authentication failure")

	// ErrSessionExpired indicates no usable session exists and the master secret must be
	// supplied again.
	ErrSessionExpired = errors.Wrap(errors.ErrReauthenticationRequired, "session expired")

	// ErrCredentialNotFound is returned by credential repositories for an unknown user.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")
)
