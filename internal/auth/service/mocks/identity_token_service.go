// Package mocks provides mock implementations of the auth services for testing.
package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
)

// MockIdentityTokenService is a mock implementation of service.IdentityTokenService.
type MockIdentityTokenService struct {
	mock.Mock
}

// Issue mocks the Issue method.
func (m *MockIdentityTokenService) Issue(userID uuid.UUID) (*authDomain.IssuedToken, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssuedToken), args.Error(1)
}

// Parse mocks the Parse method.
func (m *MockIdentityTokenService) Parse(token string) (*authDomain.Identity, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Identity), args.Error(1)
}
