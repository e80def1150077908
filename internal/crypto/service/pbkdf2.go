package service

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// The authentication hash and the encryption key both run PBKDF2-HMAC-SHA512 over
// the same secret, salt and pepper. PBKDF2 output is a prefix-stable stream, so with
// identical seeds the 32-byte key would equal the first half of the stored 64-byte
// hash. The two purposes therefore seed the KDF differently:
//
//	hash: salt || base64(pepper)
//	key:  salt || pepper
func authSeed(salt []byte, pepper cryptoDomain.Pepper) []byte {
	encoded := pepper.Encoded()
	seed := make([]byte, 0, len(salt)+len(encoded))
	seed = append(seed, salt...)
	return append(seed, encoded...)
}

func keySeed(salt []byte, pepper cryptoDomain.Pepper) []byte {
	seed := make([]byte, 0, len(salt)+len(pepper))
	seed = append(seed, salt...)
	return append(seed, pepper...)
}

func checkKDFParams(pepper cryptoDomain.Pepper, iterations int) error {
	if len(pepper) == 0 {
		return cryptoDomain.ErrPepperNotSet
	}
	if iterations < cryptoDomain.MinIterations {
		return fmt.Errorf(
			"%w: iterations must be at least %d, got %d",
			cryptoDomain.ErrKeyDerivationFailure,
			cryptoDomain.MinIterations,
			iterations,
		)
	}
	return nil
}

// pbkdf2PasswordHasher implements PasswordHasher with PBKDF2-HMAC-SHA512.
type pbkdf2PasswordHasher struct {
	pepper     cryptoDomain.Pepper
	iterations int
}

// NewPasswordHasher creates a PasswordHasher bound to the given pepper and work factor.
// Returns ErrKeyDerivationFailure when the pepper is empty or iterations is below MinIterations.
func NewPasswordHasher(pepper cryptoDomain.Pepper, iterations int) (PasswordHasher, error) {
	if err := checkKDFParams(pepper, iterations); err != nil {
		return nil, err
	}
	return &pbkdf2PasswordHasher{pepper: pepper, iterations: iterations}, nil
}

// Hash generates a SaltSize random salt and a HashSize authentication hash.
func (h *pbkdf2PasswordHasher) Hash(secret string) (hash, salt []byte, err error) {
	salt = make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	hash = pbkdf2.Key(
		[]byte(secret),
		authSeed(salt, h.pepper),
		h.iterations,
		cryptoDomain.HashSize,
		sha512.New,
	)
	return hash, salt, nil
}

// Verify recomputes the hash of secret and compares it with hash in constant time.
func (h *pbkdf2PasswordHasher) Verify(secret string, hash, salt []byte) bool {
	if len(hash) != cryptoDomain.HashSize || len(salt) == 0 {
		return false
	}

	computed := pbkdf2.Key(
		[]byte(secret),
		authSeed(salt, h.pepper),
		h.iterations,
		cryptoDomain.HashSize,
		sha512.New,
	)
	defer cryptoDomain.Zero(computed)

	return subtle.ConstantTimeCompare(computed, hash) == 1
}

// pbkdf2KeyDeriver implements KeyDeriver with PBKDF2-HMAC-SHA512.
type pbkdf2KeyDeriver struct {
	pepper     cryptoDomain.Pepper
	iterations int
}

// NewKeyDeriver creates a KeyDeriver bound to the given pepper and work factor.
func NewKeyDeriver(pepper cryptoDomain.Pepper, iterations int) (KeyDeriver, error) {
	if err := checkKDFParams(pepper, iterations); err != nil {
		return nil, err
	}
	return &pbkdf2KeyDeriver{pepper: pepper, iterations: iterations}, nil
}

// Derive returns the KeySize data-encryption key for secret and salt.
func (d *pbkdf2KeyDeriver) Derive(secret string, salt []byte) (cryptoDomain.DerivedKey, error) {
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", cryptoDomain.ErrKeyDerivationFailure)
	}

	key := pbkdf2.Key(
		[]byte(secret),
		keySeed(salt, d.pepper),
		d.iterations,
		cryptoDomain.KeySize,
		sha512.New,
	)
	return cryptoDomain.DerivedKey(key), nil
}
