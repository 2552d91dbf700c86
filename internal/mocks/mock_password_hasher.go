package mocks

import "github.com/caresync/authsvc/domain"

// MockPasswordHasher implements domain.PasswordHasher for testing
type MockPasswordHasher struct {
	HashFunc    func(password string) (string, error)
	CompareFunc func(hashed, password string) error
}

// NewMockPasswordHasher creates a new MockPasswordHasher with default behaviors
func NewMockPasswordHasher() *MockPasswordHasher {
	return &MockPasswordHasher{}
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	// Default behavior: reversible marker hash
	return "hashed:" + password, nil
}

func (m *MockPasswordHasher) Compare(hashed, password string) error {
	if m.CompareFunc != nil {
		return m.CompareFunc(hashed, password)
	}
	if hashed != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.PasswordHasher = (*MockPasswordHasher)(nil)
