package mocks

import (
	"context"
	"time"

	"github.com/caresync/authsvc/domain"
)

// MockVerificationCache implements domain.VerificationCache for testing
type MockVerificationCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, code string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

// NewMockVerificationCache creates a new MockVerificationCache with default behaviors
func NewMockVerificationCache() *MockVerificationCache {
	return &MockVerificationCache{}
}

func (m *MockVerificationCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	// Default behavior: no live code
	return "", domain.ErrCodeExpired
}

func (m *MockVerificationCache) Set(ctx context.Context, key, code string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, code, ttl)
	}
	return nil
}

func (m *MockVerificationCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.VerificationCache = (*MockVerificationCache)(nil)
