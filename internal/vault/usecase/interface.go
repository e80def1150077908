// Package usecase implements vault item business logic.
//
// Operations that read or write secret fields resolve the owner's key first. They
// return the session token minted during resolution, if any, even when the operation
// itself fails, so that callers can always hand it to the client.
package usecase

import (
	"context"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// ItemRepository defines the interface for vault item persistence.
type ItemRepository interface {
	Create(ctx context.Context, item *vaultDomain.Item) error
	Update(ctx context.Context, item *vaultDomain.Item) error
	GetByID(ctx context.Context, userID, itemID uuid.UUID) (*vaultDomain.Item, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*vaultDomain.Item, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
}

// VaultUseCase defines the interface for vault item operations.
type VaultUseCase interface {
	// Create encrypts and stores a new item. Returns the stored item with Plaintext set.
	Create(
		ctx context.Context,
		access accessDomain.ResolveInput,
		input vaultDomain.ItemInput,
	) (item *vaultDomain.Item, newSessionToken string, err error)

	// Update re-encrypts and replaces every field of an existing item.
	Update(
		ctx context.Context,
		access accessDomain.ResolveInput,
		itemID uuid.UUID,
		input vaultDomain.ItemInput,
	) (item *vaultDomain.Item, newSessionToken string, err error)

	// Get retrieves and decrypts an item.
	Get(
		ctx context.Context,
		access accessDomain.ResolveInput,
		itemID uuid.UUID,
	) (item *vaultDomain.Item, newSessionToken string, err error)

	// List returns item metadata only. It does not need the owner's key.
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*vaultDomain.Item, error)

	// Delete removes an item. It does not need the owner's key.
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
}
