package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/authsvc/domain"
	"github.com/caresync/authsvc/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func activeAdmin() *domain.Identity {
	return &domain.Identity{
		Email:           "admin@clinic.test",
		IsEmailVerified: true,
		UserType:        domain.UserTypeAdmin,
		Role:            domain.RoleSuper,
	}
}

func guardedRequest(t *testing.T, tokens *mocks.MockTokenService, repo *mocks.MockIdentityRepository, auth RouteAuth, header string) *httptest.ResponseRecorder {
	t.Helper()
	a := NewAuthenticator(tokens, repo, zerolog.Nop(), []string{"/admin/logout"})

	r := gin.New()
	handler := func(c *gin.Context) {
		identity := IdentityFrom(c)
		require.NotNil(t, identity)
		c.JSON(http.StatusOK, gin.H{"email": identity.Email})
	}
	r.GET("/admin/profile", a.Guard(auth), handler)
	r.POST("/admin/logout", a.Guard(auth), handler)

	req := httptest.NewRequest(http.MethodGet, "/admin/profile", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGuardMissingToken(t *testing.T) {
	w := guardedRequest(t, mocks.NewMockTokenService(), mocks.NewMockIdentityRepository(),
		RouteAuth{Type: domain.UserTypeAdmin}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), domain.MsgJWTRequired)
}

func TestGuardExpiredToken(t *testing.T) {
	tokens := mocks.NewMockTokenService()
	tokens.VerifyFunc = func(token string) (*domain.TokenClaims, error) {
		return nil, domain.ErrTokenExpired
	}
	w := guardedRequest(t, tokens, mocks.NewMockIdentityRepository(),
		RouteAuth{Type: domain.UserTypeAdmin}, "Bearer stale")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), domain.MsgJWTExpired)
}

func TestGuardWrongUserType(t *testing.T) {
	tokens := mocks.NewMockTokenService()
	tokens.VerifyFunc = func(token string) (*domain.TokenClaims, error) {
		return &domain.TokenClaims{Email: "doc@clinic.test", UserType: domain.UserTypeDoctor}, nil
	}
	w := guardedRequest(t, tokens, mocks.NewMockIdentityRepository(),
		RouteAuth{Type: domain.UserTypeAdmin}, "Bearer token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), domain.MsgJWTInvalid)
}

func TestGuardPurposeMismatch(t *testing.T) {
	tokens := mocks.NewMockTokenService()
	tests := []struct {
		name         string
		tokenPurpose domain.TokenPurpose
		routePurpose domain.TokenPurpose
	}{
		{"purpose token on session route", domain.PurposeSignup, domain.PurposeSession},
		{"session token on purpose route", domain.PurposeSession, domain.PurposeSignup},
		{"cross purpose", domain.PurposePasswordReset, domain.PurposeSignup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens.VerifyFunc = func(token string) (*domain.TokenClaims, error) {
				return &domain.TokenClaims{
					Email:    "admin@clinic.test",
					UserType: domain.UserTypeAdmin,
					Purpose:  tt.tokenPurpose,
				}, nil
			}
			w := guardedRequest(t, tokens, mocks.NewMockIdentityRepository(),
				RouteAuth{Type: domain.UserTypeAdmin, Purpose: tt.routePurpose}, "Bearer token")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestGuardBlockedAccountRejectedOnReload(t *testing.T) {
	tokens := mocks.NewMockTokenService()
	tokens.VerifyFunc = func(token string) (*domain.TokenClaims, error) {
		return &domain.TokenClaims{Email: "admin@clinic.test", UserType: domain.UserTypeAdmin}, nil
	}
	repo := mocks.NewMockIdentityRepository()
	repo.FindByEmailAndTypeFunc = func(ctx context.Context, email string, ut domain.UserType) (*domain.Identity, error) {
		i := activeAdmin()
		i.IsBlocked = true
		return i, nil
	}
	w := guardedRequest(t, tokens, repo, RouteAuth{Type: domain.UserTypeAdmin}, "Bearer token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), domain.MsgUserBlocked)
}

func TestGuardUnverifiedWinsOverBlocked(t *testing.T) {
	tokens := mocks.NewMockTokenService()
	tokens.VerifyFunc = func(token string) (*domain.TokenClaims, error) {
		return &domain.TokenClaims{Email: "admin@clinic.test", UserType: domain.UserTypeAdmin}, nil
	}
	repo := mocks.NewMockIdentityRepository()
	repo.FindByEmailAndTypeFunc = func(ctx context.Context, email string, ut domain.UserType) (*domain.Identity, error) {
		i := activeAdmin()
		i.IsEmailVerified = false
		i.IsBlocked = true
		return i, nil
	}

	w := guardedRequest(t, tokens, repo, RouteAuth{Type: domain.UserTypeAdmin}, "Bearer token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), domain.MsgEmailUnverified)
}

func TestGuardDeletedAccountRejectedOnReload(t *testing.T) {
	tokens := mocks.NewMockTokenService()
	tokens.VerifyFunc = func(token string) (*domain.TokenClaims, error) {
		return &domain.TokenClaims{Email: "gone@clinic.test", UserType: domain.UserTypeAdmin}, nil
	}
	// Repository default: not found.
	w := guardedRequest(t, tokens, mocks.NewMockIdentityRepository(),
		RouteAuth{Type: domain.UserTypeAdmin}, "Bearer token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuardRoleRestriction(t *testing.T) {
	tokens := mocks.NewMockTokenService()
	tokens.VerifyFunc = func(token string) (*domain.TokenClaims, error) {
		return &domain.TokenClaims{Email: "admin@clinic.test", UserType: domain.UserTypeAdmin}, nil
	}
	repo := mocks.NewMockIdentityRepository()
	repo.FindByEmailAndTypeFunc = func(ctx context.Context, email string, ut domain.UserType) (*domain.Identity, error) {
		i := activeAdmin()
		i.Role = domain.RoleSub
		return i, nil
	}

	w := guardedRequest(t, tokens, repo,
		RouteAuth{Type: domain.UserTypeAdmin, Roles: []domain.Role{domain.RoleSuper}}, "Bearer token")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), domain.MsgRoleRequired)

	w = guardedRequest(t, tokens, repo,
		RouteAuth{Type: domain.UserTypeAdmin, Roles: []domain.Role{domain.RoleSuper, domain.RoleSub}}, "Bearer token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuardSuccessAttachesIdentity(t *testing.T) {
	tokens := mocks.NewMockTokenService()
	tokens.VerifyFunc = func(token string) (*domain.TokenClaims, error) {
		return &domain.TokenClaims{Email: "admin@clinic.test", UserType: domain.UserTypeAdmin}, nil
	}
	repo := mocks.NewMockIdentityRepository()
	repo.FindByEmailAndTypeFunc = func(ctx context.Context, email string, ut domain.UserType) (*domain.Identity, error) {
		return activeAdmin(), nil
	}

	w := guardedRequest(t, tokens, repo, RouteAuth{Type: domain.UserTypeAdmin}, "Bearer token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@clinic.test")
}

func TestLogoutRouteAcceptsExpiredToken(t *testing.T) {
	tokens := mocks.NewMockTokenService()
	tokens.VerifyFunc = func(token string) (*domain.TokenClaims, error) {
		t.Fatal("logout route must use the expiry-tolerant decode")
		return nil, nil
	}
	tokens.DecodeExpiredFunc = func(token string) (*domain.TokenClaims, error) {
		return &domain.TokenClaims{Email: "admin@clinic.test", UserType: domain.UserTypeAdmin}, nil
	}
	repo := mocks.NewMockIdentityRepository()
	repo.FindByEmailAndTypeFunc = func(ctx context.Context, email string, ut domain.UserType) (*domain.Identity, error) {
		return activeAdmin(), nil
	}

	a := NewAuthenticator(tokens, repo, zerolog.Nop(), []string{"/admin/logout"})
	r := gin.New()
	r.POST("/admin/logout", a.Guard(RouteAuth{Type: domain.UserTypeAdmin}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.Header.Set("Authorization", "Bearer stale")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesFailsClosed(t *testing.T) {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set(ContextIdentityKey, activeAdmin())
	}, RequireRoles(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), domain.MsgRoleRequired)
}

func TestBearerTokenParsing(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		c := &gin.Context{Request: httptest.NewRequest(http.MethodGet, "/", nil)}
		if tt.header != "" {
			c.Request.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, bearerToken(c))
	}
}
