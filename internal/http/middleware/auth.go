package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/caresync/authsvc/domain"
)

// Context keys set by the authenticator for downstream handlers.
const (
	ContextIdentityKey = "auth.identity"
	ContextClaimsKey   = "auth.claims"
)

// RouteAuth declares what a protected route requires. Every protected
// route carries its own declaration; there is no ambient policy store.
type RouteAuth struct {
	// Type restricts the route to one account variant.
	Type domain.UserType
	// Roles, when non-empty, additionally restricts admin routes to the
	// listed sub-roles.
	Roles []domain.Role
	// Purpose, when non-empty, requires a purpose-bound token instead of a
	// session token.
	Purpose domain.TokenPurpose
}

// Authenticator verifies bearer tokens and loads the live account for
// each request. Logout routes listed in logoutRoutes accept expired
// tokens so a stale session can still be closed.
type Authenticator struct {
	tokenSvc     domain.TokenService
	identityRepo domain.IdentityRepository
	logger       zerolog.Logger
	logoutRoutes map[string]struct{}
}

// NewAuthenticator creates the authenticator shared by all route groups.
func NewAuthenticator(tokenSvc domain.TokenService, identityRepo domain.IdentityRepository, logger zerolog.Logger, logoutRoutes []string) *Authenticator {
	routes := make(map[string]struct{}, len(logoutRoutes))
	for _, r := range logoutRoutes {
		routes[r] = struct{}{}
	}
	return &Authenticator{
		tokenSvc:     tokenSvc,
		identityRepo: identityRepo,
		logger:       logger,
		logoutRoutes: routes,
	}
}

// Guard returns the middleware enforcing auth for a single route
// declaration. The checks run in a fixed order: token presence, token
// validity, purpose, user type, live account state, then roles.
func (a *Authenticator) Guard(auth RouteAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abort(c, domain.ErrTokenRequired)
			return
		}

		claims, err := a.decode(c.FullPath(), token)
		if err != nil {
			abort(c, err)
			return
		}

		if claims.Purpose != auth.Purpose {
			abort(c, domain.ErrUnauthorized)
			return
		}
		if auth.Type != "" && claims.UserType != auth.Type {
			abort(c, domain.ErrTokenInvalid)
			return
		}

		// Claims are a snapshot; blocking and deletion must take effect on
		// the very next request, so the account is reloaded every time.
		identity, err := a.identityRepo.FindByEmailAndType(c.Request.Context(), claims.Email, claims.UserType)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				abort(c, domain.ErrUnauthorized)
				return
			}
			a.logger.Error().Err(err).Str("email", claims.Email).Msg("identity reload failed")
			abort(c, domain.ErrServerDown)
			return
		}
		// Purpose-bound flows run before the account verifies its email, so
		// the verification check only applies to session routes.
		if auth.Purpose == domain.PurposeSession && !identity.IsEmailVerified {
			abort(c, domain.ErrEmailUnverifiedHard)
			return
		}
		if identity.IsBlocked {
			abort(c, domain.ErrUserBlockedOnAuth)
			return
		}

		if len(auth.Roles) > 0 && !roleAllowed(identity.Role, auth.Roles) {
			abort(c, domain.ErrRoleRequired)
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// RequireRoles returns a guard that rejects unless the authenticated
// identity holds one of the given roles. An empty role list fails closed.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFrom(c)
		if identity == nil {
			abort(c, domain.ErrUnauthorized)
			return
		}
		if !roleAllowed(identity.Role, roles) {
			abort(c, domain.ErrRoleRequired)
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity attached by the guard, or nil on an
// unguarded route.
func IdentityFrom(c *gin.Context) *domain.Identity {
	v, ok := c.Get(ContextIdentityKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*domain.Identity)
	if !ok {
		return nil
	}
	return identity
}

// ClaimsFrom returns the verified token claims attached by the guard.
func ClaimsFrom(c *gin.Context) *domain.TokenClaims {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*domain.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

func (a *Authenticator) decode(route, token string) (*domain.TokenClaims, error) {
	if _, ok := a.logoutRoutes[route]; ok {
		return a.tokenSvc.DecodeExpired(token)
	}
	return a.tokenSvc.Verify(token)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(header)
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

func abort(c *gin.Context, err error) {
	status := statusOf(err)
	c.AbortWithStatusJSON(status, gin.H{
		"message": err.Error(),
		"status":  status,
	})
}

func statusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotAcceptable:
		return http.StatusNotAcceptable
	case domain.KindUnprocessableEntity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
