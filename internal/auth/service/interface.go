// Package service issues and verifies identity tokens.
package service

import (
	"github.com/google/uuid"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
)

// IdentityTokenService signs and verifies identity tokens.
type IdentityTokenService interface {
	// Issue signs a token for userID.
	Issue(userID uuid.UUID) (*authDomain.IssuedToken, error)

	// Parse verifies token and returns the identity it carries. Expired tokens return
	// ErrIdentityTokenExpired; any other failure returns ErrInvalidIdentityToken.
	Parse(token string) (*authDomain.Identity, error)
}
