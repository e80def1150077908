// Package domain defines the inputs and outcomes of vault key resolution.
//
// Resolving a key means turning what the caller presented (a master password, a
// session token, or both) into the user's 32-byte data-encryption key. The outcome is
// either a Resolution carrying the key or one of two denials: the master password was
// wrong, or the caller must supply it again.
package domain

import (
	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// KeySource records how a key was obtained.
type KeySource string

const (
	// SourceMasterSecret means the key was derived from a verified master password.
	SourceMasterSecret KeySource = "master_secret"
	// SourceSessionCache means the key came from a live session cache entry.
	SourceSessionCache KeySource = "session_cache"
)

// UserCredential is the stored authentication material of a user.
type UserCredential struct {
	UserID       uuid.UUID
	PasswordHash []byte
	Salt         []byte
}

// ResolveInput is what a caller presents to obtain its key. An empty SessionToken or
// MasterSecret counts as not supplied.
type ResolveInput struct {
	Identity     uuid.UUID
	SessionToken string
	MasterSecret string
}

// HasMasterSecret reports whether a master secret was supplied.
func (in ResolveInput) HasMasterSecret() bool {
	return in.MasterSecret != ""
}

// HasSessionToken reports whether a session token was supplied.
func (in ResolveInput) HasSessionToken() bool {
	return in.SessionToken != ""
}

// Resolution is a successfully resolved key.
//
// NewToken is set only when the key was derived from the master secret; the caller
// must hand it to the client so that later requests can use the session cache. The
// caller owns Key and must call Zero when done.
type Resolution struct {
	Key      cryptoDomain.DerivedKey
	NewToken string
	Source   KeySource
}

// Zero wipes the resolved key.
func (r *Resolution) Zero() {
	if r != nil {
		r.Key.Zero()
	}
}
