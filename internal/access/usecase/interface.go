// Package usecase resolves per-user data-encryption keys and applies them to vault fields.
//
// It is the only place where the master secret, the session cache and the field cipher
// meet. Callers present a ResolveInput and receive either a Resolution holding the key or
// a denial telling them whether to reject the request or ask for the master secret again.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// CredentialRepository loads the stored authentication material of a user.
// Unknown users return an error wrapping apperrors.ErrNotFound.
type CredentialRepository interface {
	GetCredential(ctx context.Context, userID uuid.UUID) (*accessDomain.UserCredential, error)
}

// SessionKeyCache holds derived keys between requests.
type SessionKeyCache interface {
	Put(token string, subject uuid.UUID, key cryptoDomain.DerivedKey, slidingTTL, absoluteTTL time.Duration) error
	Get(token string) (cryptoDomain.DerivedKey, uuid.UUID, bool)
	Invalidate(token string)
}

// AccessUseCase is the key custody boundary used by the user and vault use cases.
type AccessUseCase interface {
	// HashPassword produces the authentication hash and salt stored for a new user.
	HashPassword(secret string) (hash, salt []byte, err error)

	// VerifyPassword checks secret against a stored hash and salt.
	VerifyPassword(secret string, hash, salt []byte) bool

	// ResolveKey returns the caller's key. A supplied master secret always takes precedence
	// over a session token and mints a new session token. Denials are ErrAuthenticationFailure
	// and ErrSessionExpired.
	//
	// Security Note: callers MUST call Resolution.Zero when done with the key.
	ResolveKey(ctx context.Context, input accessDomain.ResolveInput) (*accessDomain.Resolution, error)

	// EncryptField encrypts a single text field under key.
	EncryptField(plaintext string, key cryptoDomain.DerivedKey) (string, error)

	// DecryptField decrypts a single text field under key. Returns ErrMalformedCiphertext
	// when the stored value is structurally invalid.
	DecryptField(token string, key cryptoDomain.DerivedKey) (string, error)

	// InvalidateSession drops the session cache entry for token, if any.
	InvalidateSession(ctx context.Context, token string)
}
