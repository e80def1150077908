package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// PepperSource describes where the pepper comes from. Exactly one of Plain or
// Ciphertext is expected; Ciphertext requires KeyURI.
type PepperSource struct {
	// Plain is the base64 pepper (VAULT_PEPPER).
	Plain string
	// Ciphertext is the base64 KMS-wrapped pepper (VAULT_PEPPER_CIPHERTEXT).
	Ciphertext string
	// KeyURI is the KMS key used to unwrap Ciphertext (KMS_KEY_URI).
	KeyURI string
}

// PepperLoader resolves the process pepper at startup.
type PepperLoader struct {
	kmsService KMSService
}

// NewPepperLoader creates a PepperLoader. kmsService may be nil when only plain
// peppers are used.
func NewPepperLoader(kmsService KMSService) *PepperLoader {
	return &PepperLoader{kmsService: kmsService}
}

// Load returns the pepper described by src. A wrapped pepper takes precedence over
// a plain one. Every failure wraps ErrKeyDerivationFailure.
func (l *PepperLoader) Load(ctx context.Context, src PepperSource) (cryptoDomain.Pepper, error) {
	if strings.TrimSpace(src.Ciphertext) == "" {
		return cryptoDomain.ParsePepper(src.Plain)
	}

	if src.KeyURI == "" {
		return nil, fmt.Errorf("%w: KMS_KEY_URI is required to unwrap the pepper", cryptoDomain.ErrInvalidPepper)
	}
	if l.kmsService == nil {
		return nil, fmt.Errorf("%w: no KMS service configured", cryptoDomain.ErrInvalidPepper)
	}

	wrapped, err := base64.StdEncoding.DecodeString(strings.TrimSpace(src.Ciphertext))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidPepper, err)
	}

	keeper, err := l.kmsService.OpenKeeper(ctx, src.KeyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidPepper, err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	raw, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unwrap pepper: %v", cryptoDomain.ErrInvalidPepper, err)
	}
	if len(raw) == 0 {
		return nil, cryptoDomain.ErrPepperNotSet
	}

	return cryptoDomain.Pepper(raw), nil
}

// Wrap encrypts pepper with the KMS key at keyURI and returns the base64 ciphertext
// suitable for VAULT_PEPPER_CIPHERTEXT.
func (l *PepperLoader) Wrap(ctx context.Context, keyURI string, pepper cryptoDomain.Pepper) (string, error) {
	if len(pepper) == 0 {
		return "", cryptoDomain.ErrPepperNotSet
	}
	if l.kmsService == nil {
		return "", fmt.Errorf("%w: no KMS service configured", cryptoDomain.ErrInvalidPepper)
	}

	keeper, err := l.kmsService.OpenKeeper(ctx, keyURI)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = keeper.Close()
	}()

	wrapped, err := keeper.Encrypt(ctx, pepper)
	if err != nil {
		return "", fmt.Errorf("failed to wrap pepper: %w", err)
	}

	return base64.StdEncoding.EncodeToString(wrapped), nil
}
