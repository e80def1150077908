// Package domain defines the caller identity carried by signed identity tokens.
//
// Identity answers "which user is calling". It says nothing about whether the
// caller may decrypt vault data; that needs the master password or a live session.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the verified content of an identity token.
type Identity struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// IssuedToken is a freshly signed identity token.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}
