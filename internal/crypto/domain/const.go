// Package domain defines the key material and parameters used by the vault's
// envelope encryption: a per-user key is derived from the master secret, salt and
// pepper on demand and is never persisted.
package domain

import "crypto/aes"

const (
	// KeySize is the length of a DerivedKey in bytes (AES-256).
	KeySize = 32

	// IVSize is the length of the CBC initialization vector prepended to every field.
	IVSize = aes.BlockSize

	// SaltSize is the length of the per-user random salt.
	SaltSize = 16

	// HashSize is the length of the stored authentication hash (512 bits).
	HashSize = 64

	// DefaultIterations is the PBKDF2 work factor used when none is configured.
	DefaultIterations = 100000

	// MinIterations is the lowest PBKDF2 work factor the services accept.
	MinIterations = 100000
)
