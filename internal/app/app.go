package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/caresync/authsvc/domain"
	"github.com/caresync/authsvc/internal/config"
	httpx "github.com/caresync/authsvc/internal/http"
	"github.com/caresync/authsvc/internal/http/handlers"
	"github.com/caresync/authsvc/internal/http/middleware"
)

// Run wires the container and serves until the listener fails.
func Run(cfg *config.Config, logger zerolog.Logger) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	adminH := handlers.NewAccountHandlers(c.AccountSvc, domain.UserTypeAdmin)
	doctorH := handlers.NewAccountHandlers(c.AccountSvc, domain.UserTypeDoctor)
	userH := handlers.NewAccountHandlers(c.AccountSvc, domain.UserTypePatient)

	authMW := middleware.NewAuthenticator(c.TokenSvc, c.IdentityRepo, logger, cfg.LogoutRoutes)

	r := httpx.BuildRouter(adminH, doctorH, userH, authMW)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, r)
}
