// Package service provides the cryptographic primitives of the vault core:
// master-secret hashing, per-user key derivation and per-field encryption.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// PasswordHasher produces and verifies the one-way authentication hash of a master secret.
type PasswordHasher interface {
	// Hash generates a fresh random salt and returns the hash of secret under it.
	Hash(secret string) (hash, salt []byte, err error)

	// Verify recomputes the hash and compares it in constant time. It returns false
	// for a wrong secret and for a malformed stored hash alike.
	Verify(secret string, hash, salt []byte) bool
}

// KeyDeriver derives the symmetric data-encryption key of a user.
type KeyDeriver interface {
	// Derive is deterministic in (secret, salt, pepper) and runs the full work factor on every call.
	Derive(secret string, salt []byte) (cryptoDomain.DerivedKey, error)
}

// FieldCipher encrypts and decrypts individual text fields with a derived key.
type FieldCipher interface {
	// Encrypt returns base64(IV || ciphertext) with a fresh random IV.
	Encrypt(plaintext string, key cryptoDomain.DerivedKey) (string, error)

	// Decrypt reverses Encrypt. Structural failures return ErrMalformedCiphertext.
	Decrypt(token string, key cryptoDomain.DerivedKey) (string, error)
}

// Keeper is the subset of a KMS keeper used to wrap and unwrap the pepper.
// *secrets.Keeper from gocloud.dev satisfies it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers for a KMS key URI.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (Keeper, error)
}
