// Package mocks provides mock implementations of the crypto services for testing.
package mocks

import (
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// MockPasswordHasher is a mock implementation of service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// Hash mocks the Hash method.
func (m *MockPasswordHasher) Hash(secret string) ([]byte, []byte, error) {
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

// Verify mocks the Verify method.
func (m *MockPasswordHasher) Verify(secret string, hash, salt []byte) bool {
	args := m.Called(secret, hash, salt)
	return args.Bool(0)
}

// MockKeyDeriver is a mock implementation of service.KeyDeriver.
type MockKeyDeriver struct {
	mock.Mock
}

// Derive mocks the Derive method.
func (m *MockKeyDeriver) Derive(secret string, salt []byte) (cryptoDomain.DerivedKey, error) {
	args := m.Called(secret, salt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.DerivedKey), args.Error(1)
}

// MockFieldCipher is a mock implementation of service.FieldCipher.
type MockFieldCipher struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method.
func (m *MockFieldCipher) Encrypt(plaintext string, key cryptoDomain.DerivedKey) (string, error) {
	args := m.Called(plaintext, key)
	return args.String(0), args.Error(1)
}

// Decrypt mocks the Decrypt method.
func (m *MockFieldCipher) Decrypt(token string, key cryptoDomain.DerivedKey) (string, error) {
	args := m.Called(token, key)
	return args.String(0), args.Error(1)
}
