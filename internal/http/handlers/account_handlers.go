package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caresync/authsvc/domain"
	"github.com/caresync/authsvc/internal/http/middleware"
)

// AccountHandlers serves the account lifecycle for one user type. The
// router mounts one instance per route group.
type AccountHandlers struct {
	svc      domain.AccountService
	userType domain.UserType
}

// NewAccountHandlers creates handlers bound to a user type.
func NewAccountHandlers(svc domain.AccountService, userType domain.UserType) *AccountHandlers {
	return &AccountHandlers{svc: svc, userType: userType}
}

// LoginRequest represents a credential login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyCodeRequest carries an emailed or SMS one-time code
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// SignupRequest represents self-service registration
type SignupRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName"`
	PhoneNumber     string `json:"phoneNumber"`
}

// ProvisionRequest represents privileged account creation
type ProvisionRequest struct {
	Email       string `json:"email" binding:"required,email"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
	Preverified bool   `json:"preverified"`

	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"licenseNumber"`
	Experience     int    `json:"experience"`
	Qualification  string `json:"qualification"`
	Address        string `json:"address"`
}

// EmailRequest carries a bare email address
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SetPasswordRequest completes the set-password or reset-password flow
type SetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Code            string `json:"code" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ChangePasswordRequest rotates the password of a logged-in account
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// TargetRequest names another account by id
type TargetRequest struct {
	ID string `json:"id" binding:"required,uuid"`
}

// RoleUpdateRequest changes an admin sub-role
type RoleUpdateRequest struct {
	ID   string `json:"id" binding:"required,uuid"`
	Role string `json:"role" binding:"required,oneof=super sub"`
}

// EditProfileRequest carries the mutable profile fields; absent fields
// are left untouched.
type EditProfileRequest struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	PhoneNumber    *string `json:"phoneNumber"`
	Specialization *string `json:"specialization"`
	LicenseNumber  *string `json:"licenseNumber"`
	Experience     *int    `json:"experience"`
	Qualification  *string `json:"qualification"`
	Address        *string `json:"address"`
}

// Login handles credential login, branching into the two-factor challenge
// when the account requires it.
func (h *AccountHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, h.userType)
	if err != nil {
		fail(c, err)
		return
	}

	if result.TwoFARequired {
		respond(c, http.StatusOK, domain.MsgTwoFACodeSent, gin.H{
			"twoFaRequired": true,
		})
		return
	}
	respond(c, http.StatusOK, domain.MsgLoggedIn, gin.H{
		"token":     result.Token,
		"expiresIn": result.ExpiresIn,
		"user":      identityView(result.Identity),
	})
}

// VerifyTwoFA completes a two-factor login
func (h *AccountHandlers) VerifyTwoFA(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.VerifyTwoFA(c.Request.Context(), req.Email, req.Code, h.userType)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, domain.MsgLoggedIn, gin.H{
		"token":     result.Token,
		"expiresIn": result.ExpiresIn,
		"user":      identityView(result.Identity),
	})
}

// Signup handles self-service registration
func (h *AccountHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.Signup(c.Request.Context(), domain.SignupArgs{
		Email:       req.Email,
		Password:    req.Password,
		Confirm:     req.ConfirmPassword,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		UserType:    h.userType,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, domain.MsgSignedUp, gin.H{
		"token": result.Token,
		"user":  identityView(result.Identity),
	})
}

// VerifyEmail consumes an emailed verification code
func (h *AccountHandlers) VerifyEmail(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.VerifyEmail(c.Request.Context(), req.Email, req.Code, h.userType); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, domain.MsgEmailVerified, nil)
}

// Provision handles privileged account creation
func (h *AccountHandlers) Provision(c *gin.Context) {
	var req ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.Provision(c.Request.Context(), domain.ProvisionArgs{
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		UserType:       h.userType,
		Role:           domain.Role(req.Role),
		Preverified:    req.Preverified,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		Experience:     req.Experience,
		Qualification:  req.Qualification,
		Address:        req.Address,
	})
	if err != nil {
		fail(c, err)
		return
	}

	data := gin.H{"user": identityView(result.Identity)}
	if result.SignupToken != "" {
		data["token"] = result.SignupToken
	}
	respond(c, http.StatusCreated, result.Message, data)
}

// ResendEmail re-issues the set-password verification code
func (h *AccountHandlers) ResendEmail(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	message, err := h.svc.SendSetPasswordCode(c.Request.Context(), req.Email, h.userType)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, message, nil)
}

// SetPassword activates a provisioned account
func (h *AccountHandlers) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.svc.SetPassword(c.Request.Context(), req.Email, req.Code, req.Password, req.ConfirmPassword, h.userType)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, domain.MsgPasswordSet, nil)
}

// ForgotPassword starts the password reset flow
func (h *AccountHandlers) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.ForgotPassword(c.Request.Context(), req.Email, h.userType)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, result.Message, gin.H{"token": result.Token})
}

// ResetPassword completes the password reset flow
func (h *AccountHandlers) ResetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.svc.ResetPassword(c.Request.Context(), req.Email, req.Code, req.Password, req.ConfirmPassword, h.userType)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, domain.MsgPasswordChanged, nil)
}

// ChangePassword rotates the authenticated account's password
func (h *AccountHandlers) ChangePassword(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		fail(c, domain.ErrUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.svc.ChangePassword(c.Request.Context(), identity.ID, req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, domain.MsgPasswordChanged, nil)
}

// Profile returns the authenticated account
func (h *AccountHandlers) Profile(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		fail(c, domain.ErrUnauthorized)
		return
	}
	respond(c, http.StatusOK, domain.MsgSuccess, identityView(identity))
}

// Edit updates the authenticated account's profile fields
func (h *AccountHandlers) Edit(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		fail(c, domain.ErrUnauthorized)
		return
	}

	var req EditProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.svc.EditProfile(c.Request.Context(), identity.ID, domain.ProfileEdit{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		Experience:     req.Experience,
		Qualification:  req.Qualification,
		Address:        req.Address,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, domain.MsgProfileUpdated, identityView(updated))
}

// Logout acknowledges session termination. Tokens are stateless; the
// route exists so clients on an expired token still get a clean exit.
func (h *AccountHandlers) Logout(c *gin.Context) {
	respond(c, http.StatusOK, domain.MsgLoggedOut, nil)
}

// BlockToggle flips the blocked flag on another account
func (h *AccountHandlers) BlockToggle(c *gin.Context) {
	actor := middleware.IdentityFrom(c)
	if actor == nil {
		fail(c, domain.ErrUnauthorized)
		return
	}

	var req TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	targetID, err := uuid.Parse(req.ID)
	if err != nil {
		badRequest(c, err)
		return
	}

	message, err := h.svc.BlockToggle(c.Request.Context(), targetID, actor)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, message, nil)
}

// UpdateRole changes another admin's sub-role
func (h *AccountHandlers) UpdateRole(c *gin.Context) {
	actor := middleware.IdentityFrom(c)
	if actor == nil {
		fail(c, domain.ErrUnauthorized)
		return
	}

	var req RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	targetID, err := uuid.Parse(req.ID)
	if err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.svc.UpdateRole(c.Request.Context(), targetID, domain.Role(req.Role), actor)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, domain.MsgRoleUpdated, identityView(updated))
}

// Delete soft-deletes another account. The target id comes from the
// query string.
func (h *AccountHandlers) Delete(c *gin.Context) {
	actor := middleware.IdentityFrom(c)
	if actor == nil {
		fail(c, domain.ErrUnauthorized)
		return
	}

	targetID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), targetID, actor); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, domain.MsgAccountDeleted, nil)
}

// List returns a filtered, paginated account listing for this user type.
func (h *AccountHandlers) List(c *gin.Context) {
	filter := domain.IdentityFilter{
		UserType:       h.userType,
		Search:         c.Query("search"),
		Specialization: c.Query("specialization"),
		Qualification:  c.Query("qualification"),
	}
	if v := c.Query("id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.ID = &id
	}
	if v := c.Query("role"); v != "" {
		filter.Role = domain.Role(v)
	}
	if b, ok := queryBool(c, "isBlocked"); ok {
		filter.IsBlocked = &b
	}
	if b, ok := queryBool(c, "isEmailVerified"); ok {
		filter.IsEmailVerified = &b
	}
	if n, ok := queryInt(c, "minExperience"); ok {
		filter.MinExperience = &n
	}
	if n, ok := queryInt(c, "maxExperience"); ok {
		filter.MaxExperience = &n
	}

	pageNumber, _ := queryInt(c, "pageNumber")
	pageSize, ok := queryInt(c, "pageSize")
	if !ok || pageSize <= 0 {
		pageSize = 10
	}

	page, err := h.svc.List(c.Request.Context(), filter, pageNumber, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, domain.MsgListing, gin.H{
		"count": page.Count,
		"rows":  identityViews(page.Identities),
	})
}

// ListUsers returns the patient listing regardless of the handler's own
// user type, used by the admin group.
func (h *AccountHandlers) ListUsers(c *gin.Context) {
	clone := &AccountHandlers{svc: h.svc, userType: domain.UserTypePatient}
	clone.List(c)
}

func queryBool(c *gin.Context, name string) (bool, bool) {
	v := c.Query(name)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
