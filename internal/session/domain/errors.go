package domain

import (
	"github.com/allisson/passvault/internal/errors"
)

// Session cache errors.
var (
	// ErrInvalidPolicy indicates a non-positive sliding or absolute TTL.
	ErrInvalidPolicy = errors.Wrap(errors.ErrMisconfigured, "invalid session expiry policy")

	// ErrEmptyToken indicates an attempt to cache a key under an empty session token.
	ErrEmptyToken = errors.Wrap(errors.ErrInvalidInput, "session token is empty")

	// ErrCacheClosed indicates the cache has been closed and accepts no new entries.
	ErrCacheClosed = errors.New("session cache is closed")
)
