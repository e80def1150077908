// Package service implements the in-memory session key cache and the session
// tokens that index it.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/allisson/passvault/internal/errors"
)

// TokenService generates opaque session tokens and the hashes the cache is keyed by.
type TokenService interface {
	// GenerateToken creates a new random token to hand to the client. The cache
	// hashes it on every access.
	GenerateToken() (string, error)

	// HashToken hashes a plain token with SHA-256 and returns it hex encoded.
	HashToken(plainToken string) string
}

// tokenService implements TokenService using SHA-256 for token hashing.
type tokenService struct{}

// GenerateToken creates a new 32-byte random token, base64 URL-encoded.
func (t *tokenService) GenerateToken() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate session token")
	}
	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}

// HashToken hashes a plain text token using SHA-256.
func (t *tokenService) HashToken(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

// NewTokenService creates a new TokenService.
func NewTokenService() TokenService {
	return &tokenService{}
}
