// Package mocks provides mock implementations of the access use case ports for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// MockCredentialRepository is a mock implementation of usecase.CredentialRepository.
type MockCredentialRepository struct {
	mock.Mock
}

// GetCredential mocks the GetCredential method.
func (m *MockCredentialRepository) GetCredential(
	ctx context.Context,
	userID uuid.UUID,
) (*accessDomain.UserCredential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.UserCredential), args.Error(1)
}

// MockSessionKeyCache is a mock implementation of usecase.SessionKeyCache.
type MockSessionKeyCache struct {
	mock.Mock
}

// Put mocks the Put method.
func (m *MockSessionKeyCache) Put(
	token string,
	subject uuid.UUID,
	key cryptoDomain.DerivedKey,
	slidingTTL, absoluteTTL time.Duration,
) error {
	args := m.Called(token, subject, key, slidingTTL, absoluteTTL)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockSessionKeyCache) Get(token string) (cryptoDomain.DerivedKey, uuid.UUID, bool) {
	args := m.Called(token)
	var key cryptoDomain.DerivedKey
	if v := args.Get(0); v != nil {
		key = v.(cryptoDomain.DerivedKey)
	}
	return key, args.Get(1).(uuid.UUID), args.Bool(2)
}

// Invalidate mocks the Invalidate method.
func (m *MockSessionKeyCache) Invalidate(token string) {
	m.Called(token)
}

// MockAccessUseCase is a mock implementation of usecase.AccessUseCase.
type MockAccessUseCase struct {
	mock.Mock
}

// HashPassword mocks the HashPassword method.
func (m *MockAccessUseCase) HashPassword(secret string) ([]byte, []byte, error) {
	args := m.Called(secret)
	var hash, salt []byte
	if v := args.Get(0); v != nil {
		hash = v.([]byte)
	}
	if v := args.Get(1); v != nil {
		salt = v.([]byte)
	}
	return hash, salt, args.Error(2)
}

// VerifyPassword mocks the VerifyPassword method.
func (m *MockAccessUseCase) VerifyPassword(secret string, hash, salt []byte) bool {
	args := m.Called(secret, hash, salt)
	return args.Bool(0)
}

// ResolveKey mocks the ResolveKey method.
func (m *MockAccessUseCase) ResolveKey(
	ctx context.Context,
	input accessDomain.ResolveInput,
) (*accessDomain.Resolution, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.Resolution), args.Error(1)
}

// EncryptField mocks the EncryptField method.
func (m *MockAccessUseCase) EncryptField(plaintext string, key cryptoDomain.DerivedKey) (string, error) {
	args := m.Called(plaintext, key)
	return args.String(0), args.Error(1)
}

// DecryptField mocks the DecryptField method.
func (m *MockAccessUseCase) DecryptField(token string, key cryptoDomain.DerivedKey) (string, error) {
	args := m.Called(token, key)
	return args.String(0), args.Error(1)
}

// InvalidateSession mocks the InvalidateSession method.
func (m *MockAccessUseCase) InvalidateSession(ctx context.Context, token string) {
	m.Called(ctx, token)
}
