// Package mocks provides mock implementations of the vault use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// MockItemRepository is a mock implementation of usecase.ItemRepository.
type MockItemRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockItemRepository) Create(ctx context.Context, item *vaultDomain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// Update mocks the Update method.
func (m *MockItemRepository) Update(ctx context.Context, item *vaultDomain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// GetByID mocks the GetByID method.
func (m *MockItemRepository) GetByID(ctx context.Context, userID, itemID uuid.UUID) (*vaultDomain.Item, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Item), args.Error(1)
}

// ListByUser mocks the ListByUser method.
func (m *MockItemRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Item, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Item), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockItemRepository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

// MockVaultUseCase is a mock implementation of usecase.VaultUseCase.
type MockVaultUseCase struct {
	mock.Mock
}

func itemResult(args mock.Arguments) (*vaultDomain.Item, string, error) {
	var item *vaultDomain.Item
	if args.Get(0) != nil {
		item = args.Get(0).(*vaultDomain.Item)
	}
	return item, args.String(1), args.Error(2)
}

// Create mocks the Create method.
func (m *MockVaultUseCase) Create(
	ctx context.Context,
	access accessDomain.ResolveInput,
	input vaultDomain.ItemInput,
) (*vaultDomain.Item, string, error) {
	return itemResult(m.Called(ctx, access, input))
}

// Update mocks the Update method.
func (m *MockVaultUseCase) Update(
	ctx context.Context,
	access accessDomain.ResolveInput,
	itemID uuid.UUID,
	input vaultDomain.ItemInput,
) (*vaultDomain.Item, string, error) {
	return itemResult(m.Called(ctx, access, itemID, input))
}

// Get mocks the Get method.
func (m *MockVaultUseCase) Get(
	ctx context.Context,
	access accessDomain.ResolveInput,
	itemID uuid.UUID,
) (*vaultDomain.Item, string, error) {
	return itemResult(m.Called(ctx, access, itemID))
}

// List mocks the List method.
func (m *MockVaultUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Item, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Item), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockVaultUseCase) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}
