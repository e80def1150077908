// Package mocks provides mock implementations of the user use case for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/passvault/internal/user/domain"
	"github.com/allisson/passvault/internal/user/usecase"
)

// MockUseCase is a mock implementation of usecase.UseCase.
type MockUseCase struct {
	mock.Mock
}

// Register mocks the Register method.
func (m *MockUseCase) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResult), args.Error(1)
}

// Login mocks the Login method.
func (m *MockUseCase) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResult), args.Error(1)
}

// Logout mocks the Logout method.
func (m *MockUseCase) Logout(ctx context.Context, sessionToken string) {
	m.Called(ctx, sessionToken)
}

// GetUserByID mocks the GetUserByID method.
func (m *MockUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
