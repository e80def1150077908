// Package mocks provides mock implementations of the session services for testing.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// GenerateToken mocks the GenerateToken method.
func (m *MockTokenService) GenerateToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// HashToken mocks the HashToken method.
func (m *MockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}
