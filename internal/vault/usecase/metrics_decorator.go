package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	"github.com/allisson/passvault/internal/metrics"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", operation, status)
	v.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

// Create records metrics for item creation.
func (v *vaultUseCaseWithMetrics) Create(
	ctx context.Context,
	access accessDomain.ResolveInput,
	input vaultDomain.ItemInput,
) (*vaultDomain.Item, string, error) {
	start := time.Now()
	item, token, err := v.next.Create(ctx, access, input)
	v.record(ctx, "item_create", start, err)
	return item, token, err
}

// Update records metrics for item updates.
func (v *vaultUseCaseWithMetrics) Update(
	ctx context.Context,
	access accessDomain.ResolveInput,
	itemID uuid.UUID,
	input vaultDomain.ItemInput,
) (*vaultDomain.Item, string, error) {
	start := time.Now()
	item, token, err := v.next.Update(ctx, access, itemID, input)
	v.record(ctx, "item_update", start, err)
	return item, token, err
}

// Get records metrics for item retrieval.
func (v *vaultUseCaseWithMetrics) Get(
	ctx context.Context,
	access accessDomain.ResolveInput,
	itemID uuid.UUID,
) (*vaultDomain.Item, string, error) {
	start := time.Now()
	item, token, err := v.next.Get(ctx, access, itemID)
	v.record(ctx, "item_get", start, err)
	return item, token, err
}

// List records metrics for item listing.
func (v *vaultUseCaseWithMetrics) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Item, error) {
	start := time.Now()
	items, err := v.next.List(ctx, userID, offset, limit)
	v.record(ctx, "item_list", start, err)
	return items, err
}

// Delete records metrics for item deletion.
func (v *vaultUseCaseWithMetrics) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	start := time.Now()
	err := v.next.Delete(ctx, userID, itemID)
	v.record(ctx, "item_delete", start, err)
	return err
}
