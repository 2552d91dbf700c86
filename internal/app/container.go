package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/caresync/authsvc/domain"
	"github.com/caresync/authsvc/internal/config"
	"github.com/caresync/authsvc/internal/infrastructure/auth"
	"github.com/caresync/authsvc/internal/infrastructure/database"
	"github.com/caresync/authsvc/internal/infrastructure/notifications"
	"github.com/caresync/authsvc/internal/infrastructure/repositories"
	"github.com/caresync/authsvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger zerolog.Logger

	DB          *gorm.DB
	RedisClient *redis.Client

	IdentityRepo domain.IdentityRepository
	Cache        domain.VerificationCache

	PasswordSvc domain.PasswordHasher
	TokenSvc    domain.TokenService
	Mailer      domain.Mailer
	SMS         domain.SMSSender
	AccountSvc  domain.AccountService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	db, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	c.DB = db

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		return nil, err
	}
	c.RedisClient = rdb.Client

	c.IdentityRepo = repositories.NewIdentityRepository(c.DB)
	c.Cache = repositories.NewVerificationCache(c.RedisClient)

	c.PasswordSvc = auth.NewPasswordService(cfg.BcryptCost)
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)
	c.Mailer = notifications.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPSender)
	c.SMS = notifications.NewTwilioSMS(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, logger)

	c.AccountSvc = services.NewAccountService(
		c.IdentityRepo,
		c.Cache,
		c.PasswordSvc,
		c.TokenSvc,
		c.Mailer,
		c.SMS,
		logger,
		services.AccountConfig{
			TokenTTL:        cfg.TokenTTL,
			CodeTTL:         cfg.CodeTTL,
			CodeLength:      cfg.CodeLength,
			DefaultPassword: cfg.DefaultPassword,
		},
	)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
