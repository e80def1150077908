package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Pepper is the server-wide secret mixed into every hash and key derivation.
// It is configuration, not per-user data, and is never stored next to user records.
type Pepper []byte

// ParsePepper decodes a base64 (standard encoding) pepper value.
func ParsePepper(encoded string) (Pepper, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrPepperNotSet
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPepper, err)
	}
	if len(raw) == 0 {
		return nil, ErrPepperNotSet
	}

	return Pepper(raw), nil
}

// Encoded returns the base64 form of the pepper.
func (p Pepper) Encoded() string {
	return base64.StdEncoding.EncodeToString(p)
}

// Zero overwrites the pepper bytes in place.
func (p Pepper) Zero() {
	Zero(p)
}
