package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"conflict", ErrUserAlreadyExists, KindConflict},
		{"not found", ErrUserNotFound, KindNotFound},
		{"forbidden blocked", ErrUserBlocked, KindForbidden},
		{"forbidden throttle", ErrWaitToResend, KindForbidden},
		{"forbidden code expired", ErrCodeExpired, KindForbidden},
		{"not acceptable code", ErrInvalidCode, KindNotAcceptable},
		{"not acceptable credentials", ErrInvalidCredentials, KindNotAcceptable},
		{"unprocessable self block", ErrSelfBlockNotAllowed, KindUnprocessableEntity},
		{"unprocessable unverified", ErrEmailUnverified, KindUnprocessableEntity},
		{"unauthorized token", ErrTokenExpired, KindUnauthorized},
		{"internal", ErrServerDown, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("database gone")))
}

func TestErrorsIsMatchesSentinels(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", ErrUserBlocked)
	assert.True(t, errors.Is(wrapped, ErrUserBlocked))
	assert.False(t, errors.Is(wrapped, ErrUserNotFound))

	// Same kind, different message must not match.
	assert.False(t, errors.Is(Forbidden("OTHER"), ErrUserBlocked))
}

func TestSentinelMessages(t *testing.T) {
	assert.Equal(t, "USER_BLOCKED", ErrUserBlocked.Error())
	assert.Equal(t, "SELF_BLOCKING_NOT_ALLOWED", ErrSelfBlockNotAllowed.Error())
	assert.Equal(t, "JWT_EXPIRED", ErrTokenExpired.Error())
}

func TestFullName(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Ada", "Lovelace", "Ada Lovelace"},
		{"Ada", "", "Ada"},
		{"", "Lovelace", "Lovelace"},
		{"", "", ""},
	}
	for _, tt := range tests {
		i := &Identity{FirstName: tt.first, LastName: tt.last}
		assert.Equal(t, tt.want, i.FullName())
	}
}
