package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/caresync/authsvc/domain"
)

// MockIdentityRepository implements domain.IdentityRepository for testing
type MockIdentityRepository struct {
	CreateFunc                func(ctx context.Context, identity *domain.Identity) error
	FindByEmailFunc           func(ctx context.Context, email string) (*domain.Identity, error)
	FindByEmailAndTypeFunc    func(ctx context.Context, email string, userType domain.UserType) (*domain.Identity, error)
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	UpdateFieldsFunc          func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	ActivateIfPlaceholderFunc func(ctx context.Context, id uuid.UUID, newHash, placeholder string) (bool, error)
	SoftDeleteFunc            func(ctx context.Context, id uuid.UUID) error
	ListFunc                  func(ctx context.Context, filter domain.IdentityFilter, pageNumber, pageSize int) ([]domain.Identity, int64, error)
}

// NewMockIdentityRepository creates a new MockIdentityRepository with default behaviors
func NewMockIdentityRepository() *MockIdentityRepository {
	return &MockIdentityRepository{}
}

func (m *MockIdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, identity)
	}
	// Default behavior: success
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	return nil
}

func (m *MockIdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

func (m *MockIdentityRepository) FindByEmailAndType(ctx context.Context, email string, userType domain.UserType) (*domain.Identity, error) {
	if m.FindByEmailAndTypeFunc != nil {
		return m.FindByEmailAndTypeFunc(ctx, email, userType)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

func (m *MockIdentityRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

func (m *MockIdentityRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

func (m *MockIdentityRepository) ActivateIfPlaceholder(ctx context.Context, id uuid.UUID, newHash, placeholder string) (bool, error) {
	if m.ActivateIfPlaceholderFunc != nil {
		return m.ActivateIfPlaceholderFunc(ctx, id, newHash, placeholder)
	}
	return true, nil
}

func (m *MockIdentityRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockIdentityRepository) List(ctx context.Context, filter domain.IdentityFilter, pageNumber, pageSize int) ([]domain.Identity, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, pageNumber, pageSize)
	}
	return nil, 0, nil
}

// Compile-time interface compliance verification
var _ domain.IdentityRepository = (*MockIdentityRepository)(nil)
