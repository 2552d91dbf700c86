package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caresync/authsvc/domain"
)

// Cache key prefixes, one per verification purpose. At most one live code
// exists per key; issuing again while a code is live is refused.
const (
	keySetPassword   = "setPassword:"
	keyResetPassword = "resetPassword:"
	keyVerifyEmail   = "verify:"
	keyTwoFA         = "twofa:"
)

// AccountConfig carries the tunables of the account lifecycle.
type AccountConfig struct {
	TokenTTL        time.Duration
	CodeTTL         time.Duration
	CodeLength      int
	DefaultPassword string
}

// AccountServiceImpl implements domain.AccountService
type AccountServiceImpl struct {
	identityRepo domain.IdentityRepository
	cache        domain.VerificationCache
	hasher       domain.PasswordHasher
	tokenSvc     domain.TokenService
	mailer       domain.Mailer
	sms          domain.SMSSender
	logger       zerolog.Logger
	config       AccountConfig
}

// NewAccountService creates a new account service. The verification cache
// is an explicit capability of the service, not ambient state.
func NewAccountService(
	identityRepo domain.IdentityRepository,
	cache domain.VerificationCache,
	hasher domain.PasswordHasher,
	tokenSvc domain.TokenService,
	mailer domain.Mailer,
	sms domain.SMSSender,
	logger zerolog.Logger,
	config AccountConfig,
) domain.AccountService {
	return &AccountServiceImpl{
		identityRepo: identityRepo,
		cache:        cache,
		hasher:       hasher,
		tokenSvc:     tokenSvc,
		mailer:       mailer,
		sms:          sms,
		logger:       logger,
		config:       config,
	}
}

// Login implements domain.AccountService
func (s *AccountServiceImpl) Login(ctx context.Context, email, password string, userType domain.UserType) (*domain.LoginResult, error) {
	identity, err := s.identityRepo.FindByEmailAndType(ctx, normalizeEmail(email), userType)
	if err != nil {
		return nil, s.fail("Login", err)
	}
	if identity.IsBlocked {
		return nil, domain.ErrUserBlocked
	}
	if !identity.IsEmailVerified {
		return nil, domain.ErrEmailUnverified
	}
	if err := s.hasher.Compare(identity.PasswordHash, password); err != nil {
		return nil, s.fail("Login", err)
	}

	if identity.TwoFAEnabled && identity.PhoneNumber != "" {
		if err := s.sendTwoFACode(ctx, identity); err != nil {
			return nil, s.fail("Login", err)
		}
		return &domain.LoginResult{Identity: identity, TwoFARequired: true}, nil
	}

	token, err := s.sessionToken(identity)
	if err != nil {
		return nil, s.fail("Login", err)
	}
	return &domain.LoginResult{
		Identity:  identity,
		Token:     token,
		ExpiresIn: int64(s.config.TokenTTL.Seconds()),
	}, nil
}

// VerifyTwoFA implements domain.AccountService
func (s *AccountServiceImpl) VerifyTwoFA(ctx context.Context, email, code string, userType domain.UserType) (*domain.LoginResult, error) {
	email = normalizeEmail(email)
	identity, err := s.identityRepo.FindByEmailAndType(ctx, email, userType)
	if err != nil {
		return nil, s.fail("VerifyTwoFA", err)
	}
	if identity.IsBlocked {
		return nil, domain.ErrUserBlocked
	}
	if err := s.consumeCode(ctx, keyTwoFA+email, code); err != nil {
		return nil, s.fail("VerifyTwoFA", err)
	}

	token, err := s.sessionToken(identity)
	if err != nil {
		return nil, s.fail("VerifyTwoFA", err)
	}
	return &domain.LoginResult{
		Identity:  identity,
		Token:     token,
		ExpiresIn: int64(s.config.TokenTTL.Seconds()),
	}, nil
}

// Signup implements domain.AccountService. The account starts unverified
// and activates only once the emailed code is consumed.
func (s *AccountServiceImpl) Signup(ctx context.Context, args domain.SignupArgs) (*domain.SignupResult, error) {
	if args.Password != args.Confirm {
		return nil, domain.ErrPasswordNotMatched
	}
	email := normalizeEmail(args.Email)

	if _, err := s.identityRepo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, s.fail("Signup", err)
	}

	hash, err := s.hasher.Hash(args.Password)
	if err != nil {
		return nil, s.fail("Signup", err)
	}

	userType := args.UserType
	if userType == "" {
		userType = domain.UserTypePatient
	}
	identity := &domain.Identity{
		Email:        email,
		PasswordHash: hash,
		UserType:     userType,
		FirstName:    args.FirstName,
		LastName:     args.LastName,
		PhoneNumber:  args.PhoneNumber,
	}
	if err := s.identityRepo.Create(ctx, identity); err != nil {
		return nil, s.fail("Signup", err)
	}

	if err := s.issueEmailCode(ctx, keyVerifyEmail+email, identity, s.mailer.SendVerificationCode); err != nil {
		return nil, s.fail("Signup", err)
	}

	token, err := s.purposeToken(identity, domain.PurposeSignup)
	if err != nil {
		return nil, s.fail("Signup", err)
	}
	return &domain.SignupResult{Identity: identity, Token: token}, nil
}

// VerifyEmail implements domain.AccountService
func (s *AccountServiceImpl) VerifyEmail(ctx context.Context, email, code string, userType domain.UserType) error {
	email = normalizeEmail(email)
	identity, err := s.identityRepo.FindByEmailAndType(ctx, email, userType)
	if err != nil {
		return s.fail("VerifyEmail", err)
	}
	if identity.IsEmailVerified {
		return domain.ErrEmailVerified
	}
	if err := s.consumeCode(ctx, keyVerifyEmail+email, code); err != nil {
		return s.fail("VerifyEmail", err)
	}
	if err := s.identityRepo.UpdateFields(ctx, identity.ID, map[string]any{"is_email_verified": true}); err != nil {
		return s.fail("VerifyEmail", err)
	}
	return nil
}

// Provision implements domain.AccountService. Pre-verified provisioning
// generates a random credential password dispatched by mail; placeholder
// provisioning leaves the account pending the set-password flow.
func (s *AccountServiceImpl) Provision(ctx context.Context, args domain.ProvisionArgs) (*domain.ProvisionResult, error) {
	email := normalizeEmail(args.Email)

	if _, err := s.identityRepo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, s.fail("Provision", err)
	}

	identity := &domain.Identity{
		Email:          email,
		UserType:       args.UserType,
		Role:           args.Role,
		FirstName:      args.FirstName,
		LastName:       args.LastName,
		PhoneNumber:    args.PhoneNumber,
		Specialization: args.Specialization,
		LicenseNumber:  args.LicenseNumber,
		Experience:     args.Experience,
		Qualification:  args.Qualification,
		Address:        args.Address,
	}

	if args.Preverified {
		password, err := generatePassword()
		if err != nil {
			return nil, s.fail("Provision", err)
		}
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return nil, s.fail("Provision", err)
		}
		identity.PasswordHash = hash
		identity.IsEmailVerified = true

		if err := s.identityRepo.Create(ctx, identity); err != nil {
			return nil, s.fail("Provision", err)
		}
		if err := s.mailer.SendCredentials(email, identity.FullName(), password); err != nil {
			s.logger.Error().Err(err).Str("operation", "Provision").Str("email", email).Msg("credentials mail failed")
			return nil, domain.Internal(domain.MsgEmailSendFailed)
		}
		s.logger.Info().Str("id", identity.ID.String()).Msg("account provisioned with credentials")
		return &domain.ProvisionResult{Identity: identity, Message: domain.MsgAccountRegistered}, nil
	}

	// The placeholder is stored verbatim so activation can be a single
	// conditional update against it.
	identity.PasswordHash = s.config.DefaultPassword
	if err := s.identityRepo.Create(ctx, identity); err != nil {
		return nil, s.fail("Provision", err)
	}

	if err := s.issueEmailCode(ctx, keySetPassword+email, identity, s.mailer.SendVerificationCode); err != nil {
		return nil, s.fail("Provision", err)
	}

	token, err := s.purposeToken(identity, domain.PurposeSignup)
	if err != nil {
		return nil, s.fail("Provision", err)
	}
	s.logger.Info().Str("id", identity.ID.String()).Msg("account provisioned pending activation")
	return &domain.ProvisionResult{Identity: identity, Message: domain.MsgAccountInvited, SignupToken: token}, nil
}

// SendSetPasswordCode implements domain.AccountService
func (s *AccountServiceImpl) SendSetPasswordCode(ctx context.Context, email string, userType domain.UserType) (string, error) {
	email = normalizeEmail(email)
	identity, err := s.identityRepo.FindByEmailAndType(ctx, email, userType)
	if err != nil {
		return "", s.fail("SendSetPasswordCode", err)
	}
	if identity.IsEmailVerified {
		return "", domain.ErrEmailVerified
	}
	if err := s.issueEmailCode(ctx, keySetPassword+email, identity, s.mailer.SendVerificationCode); err != nil {
		return "", s.fail("SendSetPasswordCode", err)
	}
	return domain.MsgVerificationCodeSent, nil
}

// SetPassword implements domain.AccountService. Activation is a
// conditional update on the placeholder password so concurrent requests
// cannot both succeed.
func (s *AccountServiceImpl) SetPassword(ctx context.Context, email, code, password, confirm string, userType domain.UserType) error {
	if password != confirm {
		return domain.ErrPasswordNotMatched
	}
	email = normalizeEmail(email)
	identity, err := s.identityRepo.FindByEmailAndType(ctx, email, userType)
	if err != nil {
		return s.fail("SetPassword", err)
	}
	if err := s.consumeCode(ctx, keySetPassword+email, code); err != nil {
		return s.fail("SetPassword", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return s.fail("SetPassword", err)
	}
	activated, err := s.identityRepo.ActivateIfPlaceholder(ctx, identity.ID, hash, s.config.DefaultPassword)
	if err != nil {
		return s.fail("SetPassword", err)
	}
	if !activated {
		return domain.ErrPasswordAlreadySet
	}
	return nil
}

// ForgotPassword implements domain.AccountService
func (s *AccountServiceImpl) ForgotPassword(ctx context.Context, email string, userType domain.UserType) (*domain.ForgotPasswordResult, error) {
	email = normalizeEmail(email)
	s.logger.Info().Str("email", email).Msg("forgot password request")
	identity, err := s.identityRepo.FindByEmailAndType(ctx, email, userType)
	if err != nil {
		return nil, s.fail("ForgotPassword", err)
	}
	if !identity.IsEmailVerified {
		return nil, domain.ErrEmailUnverifiedHard
	}
	if err := s.issueEmailCode(ctx, keyResetPassword+email, identity, s.mailer.SendPasswordResetCode); err != nil {
		return nil, s.fail("ForgotPassword", err)
	}

	token, err := s.purposeToken(identity, domain.PurposePasswordReset)
	if err != nil {
		return nil, s.fail("ForgotPassword", err)
	}
	return &domain.ForgotPasswordResult{Message: domain.MsgResetCodeSent, Token: token}, nil
}

// ResetPassword implements domain.AccountService
func (s *AccountServiceImpl) ResetPassword(ctx context.Context, email, code, password, confirm string, userType domain.UserType) error {
	if password != confirm {
		return domain.ErrPasswordNotMatched
	}
	email = normalizeEmail(email)
	identity, err := s.identityRepo.FindByEmailAndType(ctx, email, userType)
	if err != nil {
		return s.fail("ResetPassword", err)
	}
	if err := s.consumeCode(ctx, keyResetPassword+email, code); err != nil {
		return s.fail("ResetPassword", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return s.fail("ResetPassword", err)
	}
	if err := s.identityRepo.UpdateFields(ctx, identity.ID, map[string]any{"password": hash}); err != nil {
		return s.fail("ResetPassword", err)
	}
	return nil
}

// ChangePassword implements domain.AccountService
func (s *AccountServiceImpl) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword, confirm string) error {
	if newPassword == oldPassword {
		return domain.ErrPassCantBeSame
	}
	identity, err := s.identityRepo.FindByID(ctx, id)
	if err != nil {
		return s.fail("ChangePassword", err)
	}
	if err := s.hasher.Compare(identity.PasswordHash, oldPassword); err != nil {
		return s.fail("ChangePassword", err)
	}
	if newPassword != confirm {
		return domain.ErrPasswordNotMatched
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return s.fail("ChangePassword", err)
	}
	if err := s.identityRepo.UpdateFields(ctx, identity.ID, map[string]any{"password": hash}); err != nil {
		return s.fail("ChangePassword", err)
	}
	return nil
}

// BlockToggle implements domain.AccountService. The returned message
// reflects the resulting state.
func (s *AccountServiceImpl) BlockToggle(ctx context.Context, targetID uuid.UUID, actor *domain.Identity) (string, error) {
	if targetID == actor.ID {
		return "", domain.ErrSelfBlockNotAllowed
	}
	target, err := s.identityRepo.FindByID(ctx, targetID)
	if err != nil {
		return "", s.fail("BlockToggle", err)
	}
	if err := s.identityRepo.UpdateFields(ctx, targetID, map[string]any{"is_blocked": !target.IsBlocked}); err != nil {
		return "", s.fail("BlockToggle", err)
	}
	if target.IsBlocked {
		return domain.MsgAccountUnblocked, nil
	}
	return domain.MsgAccountBlocked, nil
}

// UpdateRole implements domain.AccountService
func (s *AccountServiceImpl) UpdateRole(ctx context.Context, targetID uuid.UUID, role domain.Role, actor *domain.Identity) (*domain.Identity, error) {
	if targetID == actor.ID {
		return nil, domain.ErrSelfUpdateNotAllowed
	}
	target, err := s.identityRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, s.fail("UpdateRole", err)
	}
	if err := s.identityRepo.UpdateFields(ctx, targetID, map[string]any{"role": string(role)}); err != nil {
		return nil, s.fail("UpdateRole", err)
	}
	target.Role = role
	return target, nil
}

// Delete implements domain.AccountService
func (s *AccountServiceImpl) Delete(ctx context.Context, targetID uuid.UUID, actor *domain.Identity) error {
	if targetID == actor.ID {
		return domain.ErrSelfUpdateNotAllowed
	}
	if err := s.identityRepo.SoftDelete(ctx, targetID); err != nil {
		return s.fail("Delete", err)
	}
	return nil
}

// GetProfile implements domain.AccountService
func (s *AccountServiceImpl) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	identity, err := s.identityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail("GetProfile", err)
	}
	return identity, nil
}

// EditProfile implements domain.AccountService
func (s *AccountServiceImpl) EditProfile(ctx context.Context, id uuid.UUID, edit domain.ProfileEdit) (*domain.Identity, error) {
	if _, err := s.identityRepo.FindByID(ctx, id); err != nil {
		return nil, s.fail("EditProfile", err)
	}

	fields := map[string]any{}
	setString := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	setString("first_name", edit.FirstName)
	setString("last_name", edit.LastName)
	setString("phone_number", edit.PhoneNumber)
	setString("specialization", edit.Specialization)
	setString("license_number", edit.LicenseNumber)
	setString("qualification", edit.Qualification)
	setString("address", edit.Address)
	if edit.Experience != nil {
		fields["experience"] = *edit.Experience
	}

	if len(fields) > 0 {
		if err := s.identityRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, s.fail("EditProfile", err)
		}
	}

	identity, err := s.identityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail("EditProfile", err)
	}
	return identity, nil
}

// List implements domain.AccountService
func (s *AccountServiceImpl) List(ctx context.Context, filter domain.IdentityFilter, pageNumber, pageSize int) (*domain.IdentityPage, error) {
	identities, count, err := s.identityRepo.List(ctx, filter, pageNumber, pageSize)
	if err != nil {
		return nil, s.fail("List", err)
	}
	return &domain.IdentityPage{Count: count, Identities: identities}, nil
}

// issueEmailCode generates a one-time code for key, dispatches it through
// send and stores it with the configured TTL. Issuance is refused while a
// prior code for the key is still live. The cache write happens last so a
// failed dispatch leaves no partial state.
func (s *AccountServiceImpl) issueEmailCode(ctx context.Context, key string, identity *domain.Identity, send func(to, name, code string) error) error {
	if _, err := s.cache.Get(ctx, key); err == nil {
		return domain.ErrWaitToResend
	} else if !errors.Is(err, domain.ErrCodeExpired) {
		return err
	}

	code, err := s.generateCode()
	if err != nil {
		return err
	}
	if err := send(identity.Email, identity.FullName(), code); err != nil {
		s.logger.Error().Err(err).Str("email", identity.Email).Msg("code dispatch failed")
		return domain.Internal(domain.MsgEmailSendFailed)
	}
	return s.cache.Set(ctx, key, code, s.config.CodeTTL)
}

func (s *AccountServiceImpl) sendTwoFACode(ctx context.Context, identity *domain.Identity) error {
	key := keyTwoFA + identity.Email
	if _, err := s.cache.Get(ctx, key); err == nil {
		return domain.ErrWaitToResend
	} else if !errors.Is(err, domain.ErrCodeExpired) {
		return err
	}

	code, err := s.generateCode()
	if err != nil {
		return err
	}
	message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.CodeTTL.Minutes()))
	if err := s.sms.Send(identity.PhoneNumber, message); err != nil {
		s.logger.Error().Err(err).Str("email", identity.Email).Msg("two-factor SMS failed")
		return domain.Internal(domain.MsgSMSSendFailed)
	}
	return s.cache.Set(ctx, key, code, s.config.CodeTTL)
}

// consumeCode validates and deletes the code under key. Codes are single
// use: a successful match removes the entry immediately.
func (s *AccountServiceImpl) consumeCode(ctx context.Context, key, code string) error {
	stored, err := s.cache.Get(ctx, key)
	if err != nil {
		return err
	}
	if stored != code {
		return domain.ErrInvalidCode
	}
	return s.cache.Delete(ctx, key)
}

func (s *AccountServiceImpl) sessionToken(identity *domain.Identity) (string, error) {
	return s.tokenSvc.Issue(&domain.TokenClaims{
		Email:     identity.Email,
		FirstName: identity.FirstName,
		Role:      identity.Role,
		UserType:  identity.UserType,
	}, s.config.TokenTTL)
}

func (s *AccountServiceImpl) purposeToken(identity *domain.Identity, purpose domain.TokenPurpose) (string, error) {
	return s.tokenSvc.Issue(&domain.TokenClaims{
		Email:     identity.Email,
		FirstName: identity.FirstName,
		Role:      identity.Role,
		UserType:  identity.UserType,
		Purpose:   purpose,
	}, s.config.TokenTTL)
}

// fail passes classified domain errors through unchanged and converts
// anything unexpected into the generic server error after logging it with
// the originating operation.
func (s *AccountServiceImpl) fail(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}
	s.logger.Error().Err(err).Str("operation", op).Msg("unexpected failure")
	return domain.ErrServerDown
}

// generateCode produces a numeric one-time code of the configured length.
func (s *AccountServiceImpl) generateCode() (string, error) {
	length := s.config.CodeLength
	if length <= 0 {
		length = 6
	}
	digits := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}

// generatePassword produces a 12-character credential password with at
// least one character from each required class.
func generatePassword() (string, error) {
	const (
		uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		lowercase = "abcdefghijklmnopqrstuvwxyz"
		numbers   = "0123456789"
		special   = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	)
	classes := []string{uppercase, lowercase, numbers, special}
	all := strings.Join(classes, "")

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	password := make([]byte, 0, 12)
	for _, class := range classes {
		c, err := pick(class)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}
	for len(password) < 12 {
		c, err := pick(all)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}

	// Shuffle so the class-guaranteed characters are not positional.
	for i := len(password) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := n.Int64()
		password[i], password[j] = password[j], password[i]
	}
	return string(password), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
