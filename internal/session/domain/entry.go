// Package domain defines the session key cache entries and their expiry policy.
//
// A session entry holds a derived key in memory so that a user who proved knowledge of
// the master secret recently can keep working without re-entering it. Entries expire on
// two clocks: a sliding window refreshed by every successful lookup and an absolute
// lifetime counted from creation that lookups never extend.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// Default expiry policy.
const (
	DefaultSlidingTTL  = 30 * time.Minute
	DefaultAbsoluteTTL = 12 * time.Hour
)

// Policy holds the two expiry windows applied to new entries.
type Policy struct {
	SlidingTTL  time.Duration
	AbsoluteTTL time.Duration
}

// DefaultPolicy returns the 30 minute sliding / 12 hour absolute policy.
func DefaultPolicy() Policy {
	return Policy{SlidingTTL: DefaultSlidingTTL, AbsoluteTTL: DefaultAbsoluteTTL}
}

// Validate checks that both windows are positive.
func (p Policy) Validate() error {
	if p.SlidingTTL <= 0 || p.AbsoluteTTL <= 0 {
		return ErrInvalidPolicy
	}
	return nil
}

// Entry is a cached derived key bound to the user that created it.
type Entry struct {
	Subject       uuid.UUID
	Key           cryptoDomain.DerivedKey
	CreatedAt     time.Time
	LastTouchedAt time.Time
	SlidingTTL    time.Duration
	AbsoluteTTL   time.Duration
}

// NewEntry creates an entry stamped at now. The entry owns key.
func NewEntry(subject uuid.UUID, key cryptoDomain.DerivedKey, policy Policy, now time.Time) *Entry {
	return &Entry{
		Subject:       subject,
		Key:           key,
		CreatedAt:     now,
		LastTouchedAt: now,
		SlidingTTL:    policy.SlidingTTL,
		AbsoluteTTL:   policy.AbsoluteTTL,
	}
}

// SlidingDeadline is the instant the entry expires unless touched again.
func (e *Entry) SlidingDeadline() time.Time {
	return e.LastTouchedAt.Add(e.SlidingTTL)
}

// AbsoluteDeadline is the instant the entry expires regardless of activity.
func (e *Entry) AbsoluteDeadline() time.Time {
	return e.CreatedAt.Add(e.AbsoluteTTL)
}

// Expired reports whether either deadline has been reached at now.
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.SlidingDeadline()) || !now.Before(e.AbsoluteDeadline())
}

// Touch refreshes the sliding window.
func (e *Entry) Touch(now time.Time) {
	e.LastTouchedAt = now
}

// Zero wipes the key held by the entry.
func (e *Entry) Zero() {
	e.Key.Zero()
}
