// Package mocks provides mock implementations of the database package for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of database.TxManager.
type MockTxManager struct {
	mock.Mock
}

// WithTx records the call and, unless a Return error is configured, runs fn with ctx.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// PassThroughTxManager runs fn directly without recording anything.
type PassThroughTxManager struct{}

// WithTx runs fn with ctx.
func (PassThroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
