package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IdentityRepository defines credential store data access operations.
type IdentityRepository interface {
	Create(ctx context.Context, identity *Identity) error
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByEmailAndType(ctx context.Context, email string, userType UserType) (*Identity, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Identity, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	// ActivateIfPlaceholder atomically replaces the placeholder password
	// with newHash and marks the email verified. Returns false when the
	// stored password is no longer the placeholder, i.e. the account was
	// already activated by a concurrent request.
	ActivateIfPlaceholder(ctx context.Context, id uuid.UUID, newHash, placeholder string) (bool, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter IdentityFilter, pageNumber, pageSize int) ([]Identity, int64, error)
}

// VerificationCache is the short-lived store for one-time codes. Get
// returns ErrCodeExpired when the key is absent or evicted.
type VerificationCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, code string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PasswordHasher defines one-way password operations. Compare returns
// ErrInvalidCredentials on mismatch so callers map it to a 4xx uniformly.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashed, password string) error
}

// TokenService signs and verifies bearer tokens.
type TokenService interface {
	Issue(claims *TokenClaims, ttl time.Duration) (string, error)
	Verify(token string) (*TokenClaims, error)
	// DecodeExpired verifies the signature but tolerates expiry. Only the
	// configured logout routes may use it.
	DecodeExpired(token string) (*TokenClaims, error)
}

// Mailer dispatches account mail out of band.
type Mailer interface {
	SendVerificationCode(to, name, code string) error
	SendPasswordResetCode(to, name, code string) error
	SendCredentials(to, name, password string) error
}

// SMSSender dispatches short messages, used by the two-factor login flow.
type SMSSender interface {
	Send(to, message string) error
}

// AccountService orchestrates the account lifecycle state machine.
type AccountService interface {
	Login(ctx context.Context, email, password string, userType UserType) (*LoginResult, error)
	VerifyTwoFA(ctx context.Context, email, code string, userType UserType) (*LoginResult, error)

	Signup(ctx context.Context, args SignupArgs) (*SignupResult, error)
	VerifyEmail(ctx context.Context, email, code string, userType UserType) error
	Provision(ctx context.Context, args ProvisionArgs) (*ProvisionResult, error)

	SendSetPasswordCode(ctx context.Context, email string, userType UserType) (string, error)
	SetPassword(ctx context.Context, email, code, password, confirm string, userType UserType) error
	ForgotPassword(ctx context.Context, email string, userType UserType) (*ForgotPasswordResult, error)
	ResetPassword(ctx context.Context, email, code, password, confirm string, userType UserType) error
	ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword, confirm string) error

	BlockToggle(ctx context.Context, targetID uuid.UUID, actor *Identity) (string, error)
	UpdateRole(ctx context.Context, targetID uuid.UUID, role Role, actor *Identity) (*Identity, error)
	Delete(ctx context.Context, targetID uuid.UUID, actor *Identity) error

	GetProfile(ctx context.Context, id uuid.UUID) (*Identity, error)
	EditProfile(ctx context.Context, id uuid.UUID, edit ProfileEdit) (*Identity, error)
	List(ctx context.Context, filter IdentityFilter, pageNumber, pageSize int) (*IdentityPage, error)
}
