package domain

import (
	"github.com/allisson/passvault/internal/errors"
)

// Identity token errors.
var (
	// ErrInvalidIdentityToken indicates a token with a bad signature, issuer or subject.
	ErrInvalidIdentityToken = errors.Wrap(errors.ErrUnauthorized, "invalid identity token")

	// ErrIdentityTokenExpired indicates a token past its expiration time.
	ErrIdentityTokenExpired = errors.Wrap(errors.ErrUnauthorized, "identity token expired")

	// ErrSigningKeyNotSet indicates JWT_SECRET is empty.
	ErrSigningKeyNotSet = errors.Wrap(errors.ErrMisconfigured, "identity token signing key is not set")
)
