package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/caresync/authsvc/domain"
)

// MockAccountService implements domain.AccountService for handler tests
type MockAccountService struct {
	LoginFunc               func(ctx context.Context, email, password string, userType domain.UserType) (*domain.LoginResult, error)
	VerifyTwoFAFunc         func(ctx context.Context, email, code string, userType domain.UserType) (*domain.LoginResult, error)
	SignupFunc              func(ctx context.Context, args domain.SignupArgs) (*domain.SignupResult, error)
	VerifyEmailFunc         func(ctx context.Context, email, code string, userType domain.UserType) error
	ProvisionFunc           func(ctx context.Context, args domain.ProvisionArgs) (*domain.ProvisionResult, error)
	SendSetPasswordCodeFunc func(ctx context.Context, email string, userType domain.UserType) (string, error)
	SetPasswordFunc         func(ctx context.Context, email, code, password, confirm string, userType domain.UserType) error
	ForgotPasswordFunc      func(ctx context.Context, email string, userType domain.UserType) (*domain.ForgotPasswordResult, error)
	ResetPasswordFunc       func(ctx context.Context, email, code, password, confirm string, userType domain.UserType) error
	ChangePasswordFunc      func(ctx context.Context, id uuid.UUID, oldPassword, newPassword, confirm string) error
	BlockToggleFunc         func(ctx context.Context, targetID uuid.UUID, actor *domain.Identity) (string, error)
	UpdateRoleFunc          func(ctx context.Context, targetID uuid.UUID, role domain.Role, actor *domain.Identity) (*domain.Identity, error)
	DeleteFunc              func(ctx context.Context, targetID uuid.UUID, actor *domain.Identity) error
	GetProfileFunc          func(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	EditProfileFunc         func(ctx context.Context, id uuid.UUID, edit domain.ProfileEdit) (*domain.Identity, error)
	ListFunc                func(ctx context.Context, filter domain.IdentityFilter, pageNumber, pageSize int) (*domain.IdentityPage, error)
}

// NewMockAccountService creates a new MockAccountService
func NewMockAccountService() *MockAccountService {
	return &MockAccountService{}
}

func (m *MockAccountService) Login(ctx context.Context, email, password string, userType domain.UserType) (*domain.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, userType)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockAccountService) VerifyTwoFA(ctx context.Context, email, code string, userType domain.UserType) (*domain.LoginResult, error) {
	if m.VerifyTwoFAFunc != nil {
		return m.VerifyTwoFAFunc(ctx, email, code, userType)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockAccountService) Signup(ctx context.Context, args domain.SignupArgs) (*domain.SignupResult, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, args)
	}
	return nil, domain.ErrServerDown
}

func (m *MockAccountService) VerifyEmail(ctx context.Context, email, code string, userType domain.UserType) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, email, code, userType)
	}
	return nil
}

func (m *MockAccountService) Provision(ctx context.Context, args domain.ProvisionArgs) (*domain.ProvisionResult, error) {
	if m.ProvisionFunc != nil {
		return m.ProvisionFunc(ctx, args)
	}
	return nil, domain.ErrServerDown
}

func (m *MockAccountService) SendSetPasswordCode(ctx context.Context, email string, userType domain.UserType) (string, error) {
	if m.SendSetPasswordCodeFunc != nil {
		return m.SendSetPasswordCodeFunc(ctx, email, userType)
	}
	return domain.MsgVerificationCodeSent, nil
}

func (m *MockAccountService) SetPassword(ctx context.Context, email, code, password, confirm string, userType domain.UserType) error {
	if m.SetPasswordFunc != nil {
		return m.SetPasswordFunc(ctx, email, code, password, confirm, userType)
	}
	return nil
}

func (m *MockAccountService) ForgotPassword(ctx context.Context, email string, userType domain.UserType) (*domain.ForgotPasswordResult, error) {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email, userType)
	}
	return &domain.ForgotPasswordResult{Message: domain.MsgResetCodeSent}, nil
}

func (m *MockAccountService) ResetPassword(ctx context.Context, email, code, password, confirm string, userType domain.UserType) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, code, password, confirm, userType)
	}
	return nil
}

func (m *MockAccountService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword, confirm string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, id, oldPassword, newPassword, confirm)
	}
	return nil
}

func (m *MockAccountService) BlockToggle(ctx context.Context, targetID uuid.UUID, actor *domain.Identity) (string, error) {
	if m.BlockToggleFunc != nil {
		return m.BlockToggleFunc(ctx, targetID, actor)
	}
	return domain.MsgAccountBlocked, nil
}

func (m *MockAccountService) UpdateRole(ctx context.Context, targetID uuid.UUID, role domain.Role, actor *domain.Identity) (*domain.Identity, error) {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, targetID, role, actor)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockAccountService) Delete(ctx context.Context, targetID uuid.UUID, actor *domain.Identity) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, targetID, actor)
	}
	return nil
}

func (m *MockAccountService) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockAccountService) EditProfile(ctx context.Context, id uuid.UUID, edit domain.ProfileEdit) (*domain.Identity, error) {
	if m.EditProfileFunc != nil {
		return m.EditProfileFunc(ctx, id, edit)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockAccountService) List(ctx context.Context, filter domain.IdentityFilter, pageNumber, pageSize int) (*domain.IdentityPage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, pageNumber, pageSize)
	}
	return &domain.IdentityPage{}, nil
}

// Compile-time interface compliance verification
var _ domain.AccountService = (*MockAccountService)(nil)
