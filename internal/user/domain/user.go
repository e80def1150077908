// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	"github.com/allisson/passvault/internal/errors"
)

// User is a registered vault owner. The master password itself is never stored; only
// its PBKDF2 authentication hash and the salt shared with key derivation.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credential returns the authentication material used for key resolution.
func (u *User) Credential() *accessDomain.UserCredential {
	return &accessDomain.UserCredential{
		UserID:       u.ID,
		PasswordHash: u.PasswordHash,
		Salt:         u.Salt,
	}
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")
)
