package domain

import (
	"github.com/allisson/passvault/internal/errors"
)

// Cryptographic failures. The first two are operator/environment problems and map
// to internal errors; a malformed ciphertext is treated as data corruption.
var (
	// ErrKeyDerivationFailure indicates the KDF cannot run with the current configuration
	// (missing pepper, work factor below the minimum).
	ErrKeyDerivationFailure = errors.Wrap(errors.ErrMisconfigured, "key derivation failure")

	// ErrMalformedCiphertext indicates a stored field cannot be decoded or decrypted structurally.
	//
	// Fields are encrypted without an integrity tag, so a tampered field is not guaranteed
	// to produce this error; it may decrypt to different bytes instead.
	ErrMalformedCiphertext = errors.Wrap(errors.ErrCorrupted, "malformed ciphertext")

	// ErrInvalidKeySize indicates a key that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrMisconfigured, "invalid key size")

	// ErrPepperNotSet indicates neither VAULT_PEPPER nor VAULT_PEPPER_CIPHERTEXT is configured.
	ErrPepperNotSet = errors.Wrap(ErrKeyDerivationFailure, "pepper is not set")

	// ErrInvalidPepper indicates the configured pepper cannot be decoded or unwrapped.
	ErrInvalidPepper = errors.Wrap(ErrKeyDerivationFailure, "invalid pepper")
)
