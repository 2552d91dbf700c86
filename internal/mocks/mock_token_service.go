package mocks

import (
	"time"

	"github.com/caresync/authsvc/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	IssueFunc         func(claims *domain.TokenClaims, ttl time.Duration) (string, error)
	VerifyFunc        func(token string) (*domain.TokenClaims, error)
	DecodeExpiredFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) Issue(claims *domain.TokenClaims, ttl time.Duration) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(claims, ttl)
	}
	return "mock-token", nil
}

func (m *MockTokenService) Verify(token string) (*domain.TokenClaims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenService) DecodeExpired(token string) (*domain.TokenClaims, error) {
	if m.DecodeExpiredFunc != nil {
		return m.DecodeExpiredFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
