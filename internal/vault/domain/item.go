// Package domain defines vault items and their errors.
//
// A vault item stores one set of site credentials. The site name stays in plaintext so
// items can be listed without the owner's key; the URL, password and notes are stored
// as encrypted fields of the form base64(IV || ciphertext).
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/passvault/internal/errors"
)

// Item is a stored vault entry.
type Item struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	SiteName string
	// EncryptedURL is nil when the item has no URL.
	EncryptedURL      *string
	EncryptedPassword string
	// EncryptedNotes is nil when the item has no notes.
	EncryptedNotes *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	// Plaintext holds the decrypted fields in memory only. Never persisted.
	Plaintext *Fields `json:"-"`
}

// Fields are the secret values of an item. Empty URL or Notes means absent.
type Fields struct {
	URL      string
	Password string
	Notes    string
}

// ItemInput contains the plaintext values of an item being created or updated.
type ItemInput struct {
	SiteName string
	URL      string
	Password string
	Notes    string
}

// OwnedBy reports whether the item belongs to userID.
func (i *Item) OwnedBy(userID uuid.UUID) bool {
	return i != nil && i.UserID == userID
}

// Item-specific error definitions.
var (
	// ErrItemNotFound indicates the item does not exist or belongs to another user.
	ErrItemNotFound = errors.Wrap(errors.ErrNotFound, "vault item not found")
)
