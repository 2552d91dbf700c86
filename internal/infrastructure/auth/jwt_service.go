package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/caresync/authsvc/domain"
)

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey string, issuer string) domain.TokenService {
	return &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Issue implements domain.TokenService
func (j *JWTServiceImpl) Issue(claims *domain.TokenClaims, ttl time.Duration) (string, error) {
	jti, err := j.generateJTI()
	if err != nil {
		return "", err
	}
	now := time.Now()
	mapClaims := jwt.MapClaims{
		"email":     claims.Email,
		"firstName": claims.FirstName,
		"type":      string(claims.UserType),
		"iss":       j.issuer,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
		"jti":       jti,
	}
	if claims.Role != "" {
		mapClaims["role"] = string(claims.Role)
	}
	if claims.Purpose != domain.PurposeSession {
		mapClaims["purpose"] = string(claims.Purpose)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString(j.secretKey)
}

// Verify implements domain.TokenService. Failures are classified into the
// expired / malformed / invalid-signature domain errors so the guard can
// map them to distinct response messages.
func (j *JWTServiceImpl) Verify(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, j.keyFunc)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return j.extractClaims(token)
}

// DecodeExpired implements domain.TokenService. The signature is still
// verified; only the expiry check is skipped. Restricted by the guard to
// the configured logout routes.
func (j *JWTServiceImpl) DecodeExpired(tokenString string) (*domain.TokenClaims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.Parse(tokenString, j.keyFunc)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	return j.extractClaims(token)
}

func (j *JWTServiceImpl) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, domain.ErrTokenInvalid
	}
	return j.secretKey, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrTokenInvalid
	default:
		return domain.ErrTokenInvalid
	}
}

func (j *JWTServiceImpl) extractClaims(token *jwt.Token) (*domain.TokenClaims, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	userType, ok := claims["type"].(string)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	tokenClaims := &domain.TokenClaims{
		Email:    email,
		UserType: domain.UserType(userType),
	}

	if firstName, ok := claims["firstName"].(string); ok {
		tokenClaims.FirstName = firstName
	}
	if role, ok := claims["role"].(string); ok {
		tokenClaims.Role = domain.Role(role)
	}
	if purpose, ok := claims["purpose"].(string); ok {
		tokenClaims.Purpose = domain.TokenPurpose(purpose)
	}
	if iat, ok := claims["iat"].(float64); ok {
		tokenClaims.IssuedAt = int64(iat)
	}
	if exp, ok := claims["exp"].(float64); ok {
		tokenClaims.ExpiresAt = int64(exp)
	}

	return tokenClaims, nil
}
