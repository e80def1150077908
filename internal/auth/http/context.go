// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"context"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
)

// identityKey is a context key type for storing the authenticated identity.
type identityKey struct{}

// WithIdentity stores an authenticated identity in the context.
func WithIdentity(ctx context.Context, identity *authDomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity retrieves the authenticated identity from the context.
// Returns (identity, true) if present, or (nil, false) if no identity was set.
func GetIdentity(ctx context.Context) (*authDomain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*authDomain.Identity)
	return identity, ok && identity != nil
}
