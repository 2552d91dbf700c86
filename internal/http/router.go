package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/caresync/authsvc/domain"
	"github.com/caresync/authsvc/internal/http/handlers"
	"github.com/caresync/authsvc/internal/http/middleware"
)

// BuildRouter wires the route groups. Every protected route declares its
// own requirements inline; there is no ambient policy lookup.
func BuildRouter(
	admin *handlers.AccountHandlers,
	doctor *handlers.AccountHandlers,
	user *handlers.AccountHandlers,
	auth *middleware.Authenticator,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	superOnly := middleware.RouteAuth{Type: domain.UserTypeAdmin, Roles: []domain.Role{domain.RoleSuper}}
	anyAdmin := middleware.RouteAuth{Type: domain.UserTypeAdmin}
	adminSignup := middleware.RouteAuth{Type: domain.UserTypeAdmin, Purpose: domain.PurposeSignup}
	adminReset := middleware.RouteAuth{Type: domain.UserTypeAdmin, Purpose: domain.PurposePasswordReset}

	adm := r.Group("/admin")
	adm.POST("/login", admin.Login)
	adm.POST("/login/verify", admin.VerifyTwoFA)
	adm.POST("/forgot/password", admin.ForgotPassword)
	adm.POST("/add", auth.Guard(superOnly), admin.Provision)
	adm.POST("/resend/email", auth.Guard(adminSignup), admin.ResendEmail)
	adm.PUT("/set/password", auth.Guard(adminSignup), admin.SetPassword)
	adm.PUT("/reset/password", auth.Guard(adminReset), admin.ResetPassword)
	adm.PUT("/change/password", auth.Guard(anyAdmin), admin.ChangePassword)
	adm.PUT("/block/toggle", auth.Guard(superOnly), admin.BlockToggle)
	adm.PUT("/role", auth.Guard(superOnly), admin.UpdateRole)
	adm.DELETE("/", auth.Guard(superOnly), admin.Delete)
	adm.GET("/", auth.Guard(middleware.RouteAuth{Type: domain.UserTypeAdmin, Roles: []domain.Role{domain.RoleSuper, domain.RoleSub}}), admin.List)
	adm.GET("/profile", auth.Guard(anyAdmin), admin.Profile)
	adm.PUT("/edit", auth.Guard(anyAdmin), admin.Edit)
	adm.POST("/logout", auth.Guard(anyAdmin), admin.Logout)
	adm.GET("/user/", auth.Guard(middleware.RouteAuth{Type: domain.UserTypeAdmin, Roles: []domain.Role{domain.RoleSuper, domain.RoleSub}}), admin.ListUsers)

	anyDoctor := middleware.RouteAuth{Type: domain.UserTypeDoctor}
	doctorSignup := middleware.RouteAuth{Type: domain.UserTypeDoctor, Purpose: domain.PurposeSignup}
	doctorReset := middleware.RouteAuth{Type: domain.UserTypeDoctor, Purpose: domain.PurposePasswordReset}

	doc := r.Group("/doctor")
	doc.POST("/login", doctor.Login)
	doc.POST("/login/verify", doctor.VerifyTwoFA)
	doc.POST("/forgot/password", doctor.ForgotPassword)
	doc.POST("/add", auth.Guard(superOnly), doctor.Provision)
	doc.POST("/resend/email", auth.Guard(doctorSignup), doctor.ResendEmail)
	doc.PUT("/set/password", auth.Guard(doctorSignup), doctor.SetPassword)
	doc.PUT("/reset/password", auth.Guard(doctorReset), doctor.ResetPassword)
	doc.PUT("/change/password", auth.Guard(anyDoctor), doctor.ChangePassword)
	doc.GET("/profile", auth.Guard(anyDoctor), doctor.Profile)
	doc.PUT("/edit", auth.Guard(anyDoctor), doctor.Edit)
	doc.POST("/logout", auth.Guard(anyDoctor), doctor.Logout)
	doc.GET("/", doctor.List)

	anyUser := middleware.RouteAuth{Type: domain.UserTypePatient}
	userReset := middleware.RouteAuth{Type: domain.UserTypePatient, Purpose: domain.PurposePasswordReset}

	usr := r.Group("/user")
	usr.POST("/signup", user.Signup)
	usr.POST("/verify/email", user.VerifyEmail)
	usr.POST("/login", user.Login)
	usr.POST("/login/verify", user.VerifyTwoFA)
	usr.POST("/forgot/password", user.ForgotPassword)
	usr.PUT("/reset/password", auth.Guard(userReset), user.ResetPassword)
	usr.PUT("/change/password", auth.Guard(anyUser), user.ChangePassword)
	usr.GET("/profile", auth.Guard(anyUser), user.Profile)
	usr.PUT("/edit", auth.Guard(anyUser), user.Edit)
	usr.POST("/logout", auth.Guard(anyUser), user.Logout)

	return r
}
