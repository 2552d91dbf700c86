package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserType discriminates the three account variants served by the API.
type UserType string

const (
	UserTypeAdmin   UserType = "admin"
	UserTypeDoctor  UserType = "doctor"
	UserTypePatient UserType = "patient"
)

// Role is the admin sub-role used by the role guard.
type Role string

const (
	RoleSuper Role = "super"
	RoleSub   Role = "sub"
)

// TokenPurpose restricts a token to a specific account flow. Session tokens
// carry the empty purpose.
type TokenPurpose string

const (
	PurposeSession       TokenPurpose = ""
	PurposeSignup        TokenPurpose = "signup"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// Identity is the unified account record for admins, doctors and patients.
// Variant-specific attributes are optional and dispatched on UserType.
type Identity struct {
	ID              uuid.UUID
	Email           string
	PasswordHash    string
	IsEmailVerified bool
	IsBlocked       bool
	UserType        UserType
	Role            Role
	FirstName       string
	LastName        string
	PhoneNumber     string
	TwoFAEnabled    bool

	// Doctor specific fields
	Specialization string
	LicenseNumber  string
	Experience     int
	Qualification  string
	Address        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins the display name fields for mail templates.
func (i *Identity) FullName() string {
	switch {
	case i.FirstName == "":
		return i.LastName
	case i.LastName == "":
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}

// TokenClaims is the payload embedded in every bearer token.
type TokenClaims struct {
	Email     string       `json:"email"`
	FirstName string       `json:"firstName"`
	Role      Role         `json:"role,omitempty"`
	UserType  UserType     `json:"type"`
	Purpose   TokenPurpose `json:"purpose,omitempty"`
	IssuedAt  int64        `json:"iat"`
	ExpiresAt int64        `json:"exp"`
}

// IdentityFilter narrows a listing query. Pointer fields distinguish
// "unset" from a deliberate false/zero.
type IdentityFilter struct {
	ID              *uuid.UUID
	UserType        UserType
	Role            Role
	IsBlocked       *bool
	IsEmailVerified *bool
	Search          string
	Specialization  string
	Qualification   string
	MinExperience   *int
	MaxExperience   *int
}

// IdentityPage is a counted listing slice ordered most-recent first.
type IdentityPage struct {
	Count      int64
	Identities []Identity
}

// LoginResult is the outcome of a successful credential check. When the
// account has two-factor enabled no token is issued until the SMS code is
// verified.
type LoginResult struct {
	Identity      *Identity
	Token         string
	ExpiresIn     int64
	TwoFARequired bool
}

// SignupArgs is the self-service registration payload.
type SignupArgs struct {
	Email       string
	Password    string
	Confirm     string
	FirstName   string
	LastName    string
	PhoneNumber string
	UserType    UserType
}

// SignupResult carries the unverified account and its signup-purpose token.
type SignupResult struct {
	Identity *Identity
	Token    string
}

// ProvisionArgs is the privileged account creation payload. When
// Preverified is set a random credential password is generated and
// dispatched out of band; otherwise the account is created unverified with
// the placeholder password and must complete the set-password flow.
type ProvisionArgs struct {
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	UserType    UserType
	Role        Role
	Preverified bool

	Specialization string
	LicenseNumber  string
	Experience     int
	Qualification  string
	Address        string
}

// ProvisionResult carries the outcome message and, for placeholder
// provisioning, the signup-purpose token embedded in the invitation mail.
type ProvisionResult struct {
	Identity    *Identity
	Message     string
	SignupToken string
}

// ForgotPasswordResult carries the reset-purpose token for the reset route.
type ForgotPasswordResult struct {
	Message string
	Token   string
}

// ProfileEdit holds the mutable profile fields. Nil pointers are left
// untouched.
type ProfileEdit struct {
	FirstName      *string
	LastName       *string
	PhoneNumber    *string
	Specialization *string
	LicenseNumber  *string
	Experience     *int
	Qualification  *string
	Address        *string
}
