package usecase

import (
	"context"
	"time"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
	"github.com/allisson/passvault/internal/metrics"
)

// accessUseCaseWithMetrics decorates AccessUseCase with metrics instrumentation.
type accessUseCaseWithMetrics struct {
	next    AccessUseCase
	metrics metrics.BusinessMetrics
}

// NewAccessUseCaseWithMetrics wraps an AccessUseCase with metrics recording.
func NewAccessUseCaseWithMetrics(useCase AccessUseCase, m metrics.BusinessMetrics) AccessUseCase {
	return &accessUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *accessUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "access", operation, status)
	a.metrics.RecordDuration(ctx, "access", operation, time.Since(start), status)
}

// HashPassword records metrics for master password hashing.
func (a *accessUseCaseWithMetrics) HashPassword(secret string) (hash, salt []byte, err error) {
	start := time.Now()
	hash, salt, err = a.next.HashPassword(secret)
	a.record(context.Background(), "hash_password", start, err)
	return hash, salt, err
}

// VerifyPassword delegates without recording; verification outcomes are covered by resolve_key.
func (a *accessUseCaseWithMetrics) VerifyPassword(secret string, hash, salt []byte) bool {
	return a.next.VerifyPassword(secret, hash, salt)
}

// ResolveKey records metrics for key resolution, labelled by where the key came from.
func (a *accessUseCaseWithMetrics) ResolveKey(
	ctx context.Context,
	input accessDomain.ResolveInput,
) (*accessDomain.Resolution, error) {
	start := time.Now()
	resolution, err := a.next.ResolveKey(ctx, input)

	operation := "resolve_key"
	if resolution != nil {
		operation = "resolve_key_" + string(resolution.Source)
	}
	a.record(ctx, operation, start, err)

	return resolution, err
}

// EncryptField delegates without recording.
func (a *accessUseCaseWithMetrics) EncryptField(plaintext string, key cryptoDomain.DerivedKey) (string, error) {
	return a.next.EncryptField(plaintext, key)
}

// DecryptField records failures only, which indicate corrupted stored data.
func (a *accessUseCaseWithMetrics) DecryptField(token string, key cryptoDomain.DerivedKey) (string, error) {
	plaintext, err := a.next.DecryptField(token, key)
	if err != nil {
		a.metrics.RecordOperation(context.Background(), "access", "decrypt_field", "error")
	}
	return plaintext, err
}

// InvalidateSession records metrics for session invalidation.
func (a *accessUseCaseWithMetrics) InvalidateSession(ctx context.Context, token string) {
	start := time.Now()
	a.next.InvalidateSession(ctx, token)
	a.record(ctx, "invalidate_session", start, nil)
}
