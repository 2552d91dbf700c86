package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/caresync/authsvc/domain"
)

// PasswordServiceImpl implements domain.PasswordHasher
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service. A cost outside the
// bcrypt bounds falls back to the library default.
func NewPasswordService(cost int) domain.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{cost: cost}
}

// Hash implements domain.PasswordHasher
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Compare implements domain.PasswordHasher. A mismatch surfaces as the
// invalid-credentials domain error, never as a bare bcrypt error.
func (p *PasswordServiceImpl) Compare(hashed, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}
