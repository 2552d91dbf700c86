package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret   string `yaml:"secret"`
	Issuer   string `yaml:"issuer"`
	TokenTTL string `yaml:"token_ttl"`
}

type AccountConfig struct {
	BcryptCost      int    `yaml:"bcrypt_cost"`
	DefaultPassword string `yaml:"default_password"`
	CodeTTL         string `yaml:"code_ttl"`
	CodeLength      int    `yaml:"code_length"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Sender   string `yaml:"sender"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type ConfigFile struct {
	App          AppConfig      `yaml:"app"`
	Database     DatabaseConfig `yaml:"database"`
	Redis        RedisConfig    `yaml:"redis"`
	JWT          JWTConfig      `yaml:"jwt"`
	Account      AccountConfig  `yaml:"account"`
	SMTP         SMTPConfig     `yaml:"smtp"`
	Twilio       TwilioConfig   `yaml:"twilio"`
	LogoutRoutes []string       `yaml:"logout_routes"`
}

// Config is the resolved runtime configuration. Secrets fall back to the
// yaml values but can be overridden through the environment.
type Config struct {
	Port    string
	GinMode string

	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	BcryptCost      int
	DefaultPassword string
	CodeTTL         time.Duration
	CodeLength      int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPSender   string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	// Routes allowed to present an expired token for decode-only access.
	LogoutRoutes []string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func Load() (*Config, error) {
	path := env("CONFIG_PATH", "config/config.yml")
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	tokenTTL, err := time.ParseDuration(configFile.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt token TTL: %w", err)
	}

	codeTTL, err := time.ParseDuration(configFile.Account.CodeTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid verification code TTL: %w", err)
	}

	return &Config{
		Port:    fmt.Sprintf("%d", configFile.App.Port),
		GinMode: configFile.App.GinMode,

		DSN:           env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		JWTSecret: env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer: configFile.JWT.Issuer,
		TokenTTL:  tokenTTL,

		BcryptCost:      envInt("BCRYPT_COST", configFile.Account.BcryptCost),
		DefaultPassword: env("DEFAULT_PASSWORD", configFile.Account.DefaultPassword),
		CodeTTL:         codeTTL,
		CodeLength:      configFile.Account.CodeLength,

		SMTPHost:     env("SMTP_HOST", configFile.SMTP.Host),
		SMTPPort:     envInt("SMTP_PORT", configFile.SMTP.Port),
		SMTPUsername: env("SMTP_USERNAME", configFile.SMTP.Username),
		SMTPPassword: env("SMTP_PASSWORD", configFile.SMTP.Password),
		SMTPSender:   env("SMTP_SENDER", configFile.SMTP.Sender),

		TwilioSID:   env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken: env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:  env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),

		LogoutRoutes: configFile.LogoutRoutes,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
