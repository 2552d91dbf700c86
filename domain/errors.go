package domain

import "errors"

// ErrorKind classifies an expected business failure. The transport layer
// owns the mapping from kind to HTTP status; services only ever return a
// kind.
type ErrorKind int

const (
	KindConflict ErrorKind = iota + 1
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindNotAcceptable
	KindUnprocessableEntity
	KindInternal
)

// Error is a classified domain failure. Instances created through the kind
// constructors propagate unmodified from the point of violation to the
// transport boundary.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches two domain errors on kind and message so sentinel instances
// below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func Conflict(msg string) *Error            { return &Error{Kind: KindConflict, Message: msg} }
func NotFound(msg string) *Error            { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) *Error           { return &Error{Kind: KindForbidden, Message: msg} }
func Unauthorized(msg string) *Error        { return &Error{Kind: KindUnauthorized, Message: msg} }
func NotAcceptable(msg string) *Error       { return &Error{Kind: KindNotAcceptable, Message: msg} }
func UnprocessableEntity(msg string) *Error { return &Error{Kind: KindUnprocessableEntity, Message: msg} }
func Internal(msg string) *Error            { return &Error{Kind: KindInternal, Message: msg} }

// KindOf extracts the kind from any error chain. Unclassified errors are
// internal by definition.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Response messages surfaced to clients.
const (
	MsgJWTRequired           = "JWT_REQUIRED"
	MsgJWTExpired            = "JWT_EXPIRED"
	MsgJWTInvalid            = "JWT_INVALID"
	MsgInvalidSignature      = "INVALID_SIGNATURE"
	MsgUnauthorized          = "UNAUTHORIZED"
	MsgUserBlocked           = "USER_BLOCKED"
	MsgEmailUnverified       = "EMAIL_UNVERIFIED"
	MsgRoleRequired          = "ROLE_REQUIRED"
	MsgUserNotFound          = "USER_NOT_FOUND"
	MsgUserAlreadyExists     = "USER_ALREADY_EXISTS"
	MsgEmailAlreadyVerified  = "EMAIL_ALREADY_VERIFIED"
	MsgWaitToResendAgain     = "WAIT_TO_RESEND_AGAIN"
	MsgCodeExpired           = "CODE_EXPIRED"
	MsgInvalidCode           = "INVALID_CODE"
	MsgPasswordAlreadySet    = "PASSWORD_ALREADY_SET"
	MsgPasswordNotMatched    = "PASSWORD_NOT_MATCHED"
	MsgPassCantBeSame        = "NEW_PASSWORD_CANT_BE_SAME_AS_OLD"
	MsgInvalidCredentials    = "INVALID_CREDENTIALS"
	MsgSelfBlockNotAllowed   = "SELF_BLOCKING_NOT_ALLOWED"
	MsgSelfUpdateNotAllowed  = "SELF_UPDATION_NOT_ALLOWED"
	MsgServerTemporarilyDown = "SERVER_TEMPORARILY_DOWN"
	MsgEmailSendFailed       = "EMAIL_SEND_FAILED"
	MsgSMSSendFailed         = "SMS_SEND_FAILED"
	MsgTwoFARequired         = "TWO_FA_CODE_REQUIRED"

	MsgLoggedIn             = "logged in successfully"
	MsgLoggedOut            = "logged out successfully"
	MsgSignedUp             = "account created, verification code sent to your email"
	MsgAccountRegistered    = "account registered, credentials sent to email"
	MsgAccountInvited       = "account created, verification email sent"
	MsgVerificationCodeSent = "verification code sent to your email"
	MsgResetCodeSent        = "reset password code sent to your email"
	MsgTwoFACodeSent        = "two-factor code sent to your phone"
	MsgEmailVerified        = "email verified successfully"
	MsgPasswordSet          = "password set successfully"
	MsgPasswordChanged      = "password changed successfully"
	MsgProfileUpdated       = "profile updated successfully"
	MsgRoleUpdated          = "role updated successfully"
	MsgAccountBlocked       = "account blocked successfully"
	MsgAccountUnblocked     = "account unblocked successfully"
	MsgAccountDeleted       = "account deleted successfully"
	MsgListing              = "listing fetched successfully"
	MsgSuccess              = "success"
)

// Sentinel instances for the failures services compare against.
var (
	ErrUserNotFound         = NotFound(MsgUserNotFound)
	ErrUserAlreadyExists    = Conflict(MsgUserAlreadyExists)
	ErrUserBlocked          = Forbidden(MsgUserBlocked)
	ErrEmailUnverified      = UnprocessableEntity(MsgEmailUnverified)
	ErrEmailUnverifiedHard  = Forbidden(MsgEmailUnverified)
	ErrEmailVerified        = NotAcceptable(MsgEmailAlreadyVerified)
	ErrWaitToResend         = Forbidden(MsgWaitToResendAgain)
	ErrCodeExpired          = Forbidden(MsgCodeExpired)
	ErrInvalidCode          = NotAcceptable(MsgInvalidCode)
	ErrPasswordAlreadySet   = NotFound(MsgPasswordAlreadySet)
	ErrPasswordNotMatched   = NotAcceptable(MsgPasswordNotMatched)
	ErrPassCantBeSame       = NotAcceptable(MsgPassCantBeSame)
	ErrInvalidCredentials   = NotAcceptable(MsgInvalidCredentials)
	ErrSelfBlockNotAllowed  = UnprocessableEntity(MsgSelfBlockNotAllowed)
	ErrSelfUpdateNotAllowed = UnprocessableEntity(MsgSelfUpdateNotAllowed)
	ErrRoleRequired         = UnprocessableEntity(MsgRoleRequired)
	ErrServerDown           = Internal(MsgServerTemporarilyDown)

	ErrTokenRequired     = Unauthorized(MsgJWTRequired)
	ErrTokenExpired      = Unauthorized(MsgJWTExpired)
	ErrTokenInvalid      = Unauthorized(MsgJWTInvalid)
	ErrInvalidSignature  = Unauthorized(MsgInvalidSignature)
	ErrUnauthorized      = Unauthorized(MsgUnauthorized)
	ErrUserBlockedOnAuth = Unauthorized(MsgUserBlocked)
)
