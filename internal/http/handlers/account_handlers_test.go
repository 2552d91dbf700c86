package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/authsvc/domain"
	"github.com/caresync/authsvc/internal/http/middleware"
	"github.com/caresync/authsvc/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestLoginHandler(t *testing.T) {
	svc := mocks.NewMockAccountService()
	h := NewAccountHandlers(svc, domain.UserTypeDoctor)
	r := gin.New()
	r.POST("/doctor/login", h.Login)

	t.Run("binding failure", func(t *testing.T) {
		w := postJSON(t, r, "/doctor/login", gin.H{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("domain error mapped to status", func(t *testing.T) {
		svc.LoginFunc = func(ctx context.Context, email, password string, ut domain.UserType) (*domain.LoginResult, error) {
			return nil, domain.ErrUserBlocked
		}
		w := postJSON(t, r, "/doctor/login", gin.H{"email": "doc@clinic.test", "password": "secret123"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		body := decodeEnvelope(t, w)
		assert.Equal(t, domain.MsgUserBlocked, body["message"])
		assert.Equal(t, float64(http.StatusForbidden), body["status"])
	})

	t.Run("success envelope", func(t *testing.T) {
		svc.LoginFunc = func(ctx context.Context, email, password string, ut domain.UserType) (*domain.LoginResult, error) {
			assert.Equal(t, domain.UserTypeDoctor, ut)
			return &domain.LoginResult{
				Identity: &domain.Identity{
					ID:       uuid.New(),
					Email:    email,
					UserType: ut,
				},
				Token:     "session-token",
				ExpiresIn: 3600,
			}, nil
		}
		w := postJSON(t, r, "/doctor/login", gin.H{"email": "doc@clinic.test", "password": "secret123"})
		assert.Equal(t, http.StatusOK, w.Code)

		body := decodeEnvelope(t, w)
		assert.Equal(t, domain.MsgLoggedIn, body["message"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "session-token", data["token"])
		user := data["user"].(map[string]any)
		assert.Equal(t, "doc@clinic.test", user["email"])
		_, leaked := user["passwordHash"]
		assert.False(t, leaked)
	})

	t.Run("two factor challenge", func(t *testing.T) {
		svc.LoginFunc = func(ctx context.Context, email, password string, ut domain.UserType) (*domain.LoginResult, error) {
			return &domain.LoginResult{TwoFARequired: true}, nil
		}
		w := postJSON(t, r, "/doctor/login", gin.H{"email": "doc@clinic.test", "password": "secret123"})
		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeEnvelope(t, w)
		assert.Equal(t, domain.MsgTwoFACodeSent, body["message"])
	})
}

func TestSignupHandler(t *testing.T) {
	svc := mocks.NewMockAccountService()
	h := NewAccountHandlers(svc, domain.UserTypePatient)
	r := gin.New()
	r.POST("/user/signup", h.Signup)

	t.Run("duplicate maps to conflict", func(t *testing.T) {
		svc.SignupFunc = func(ctx context.Context, args domain.SignupArgs) (*domain.SignupResult, error) {
			return nil, domain.ErrUserAlreadyExists
		}
		w := postJSON(t, r, "/user/signup", gin.H{
			"email": "pat@clinic.test", "password": "secret123!", "confirmPassword": "secret123!", "firstName": "Pat",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("success returns created", func(t *testing.T) {
		svc.SignupFunc = func(ctx context.Context, args domain.SignupArgs) (*domain.SignupResult, error) {
			assert.Equal(t, domain.UserTypePatient, args.UserType)
			return &domain.SignupResult{
				Identity: &domain.Identity{ID: uuid.New(), Email: args.Email, UserType: args.UserType},
				Token:    "signup-token",
			}, nil
		}
		w := postJSON(t, r, "/user/signup", gin.H{
			"email": "pat@clinic.test", "password": "secret123!", "confirmPassword": "secret123!", "firstName": "Pat",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeEnvelope(t, w)
		assert.Equal(t, domain.MsgSignedUp, body["message"])
	})
}

func TestBlockToggleHandlerUsesContextIdentity(t *testing.T) {
	svc := mocks.NewMockAccountService()
	actor := &domain.Identity{ID: uuid.New(), UserType: domain.UserTypeAdmin, Role: domain.RoleSuper}
	var gotActor *domain.Identity
	svc.BlockToggleFunc = func(ctx context.Context, targetID uuid.UUID, a *domain.Identity) (string, error) {
		gotActor = a
		return domain.MsgAccountBlocked, nil
	}

	h := NewAccountHandlers(svc, domain.UserTypeAdmin)
	r := gin.New()
	r.PUT("/admin/block/toggle", func(c *gin.Context) {
		c.Set(middleware.ContextIdentityKey, actor)
	}, h.BlockToggle)

	payload, _ := json.Marshal(gin.H{"id": uuid.NewString()})
	req := httptest.NewRequest(http.MethodPut, "/admin/block/toggle", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, actor, gotActor)
}

func TestListHandlerParsesFilters(t *testing.T) {
	svc := mocks.NewMockAccountService()
	var gotFilter domain.IdentityFilter
	var gotPage, gotSize int
	svc.ListFunc = func(ctx context.Context, filter domain.IdentityFilter, pageNumber, pageSize int) (*domain.IdentityPage, error) {
		gotFilter, gotPage, gotSize = filter, pageNumber, pageSize
		return &domain.IdentityPage{Count: 1, Identities: []domain.Identity{{ID: uuid.New(), UserType: domain.UserTypeDoctor}}}, nil
	}

	h := NewAccountHandlers(svc, domain.UserTypeDoctor)
	r := gin.New()
	r.GET("/doctor/", h.List)

	req := httptest.NewRequest(http.MethodGet,
		"/doctor/?pageNumber=2&pageSize=5&isBlocked=false&specialization=cardio&minExperience=3&search=rey", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.UserTypeDoctor, gotFilter.UserType)
	require.NotNil(t, gotFilter.IsBlocked)
	assert.False(t, *gotFilter.IsBlocked)
	assert.Equal(t, "cardio", gotFilter.Specialization)
	require.NotNil(t, gotFilter.MinExperience)
	assert.Equal(t, 3, *gotFilter.MinExperience)
	assert.Equal(t, "rey", gotFilter.Search)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 5, gotSize)

	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["count"])
}

func TestDataKeyPresentOnEmptySuccess(t *testing.T) {
	svc := mocks.NewMockAccountService()
	h := NewAccountHandlers(svc, domain.UserTypePatient)
	r := gin.New()
	r.POST("/user/verify/email", h.VerifyEmail)

	w := postJSON(t, r, "/user/verify/email", gin.H{"email": "pat@clinic.test", "code": "123456"})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	data, present := body["data"]
	assert.True(t, present)
	assert.Nil(t, data)
}

func TestStatusOfMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrUserAlreadyExists, http.StatusConflict},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrUserBlocked, http.StatusForbidden},
		{domain.ErrTokenExpired, http.StatusUnauthorized},
		{domain.ErrInvalidCode, http.StatusNotAcceptable},
		{domain.ErrSelfBlockNotAllowed, http.StatusUnprocessableEntity},
		{domain.ErrServerDown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err))
	}
}
