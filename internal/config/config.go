package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageSqlite   = "sqlite"

	EmailTransportSES  = "ses"
	EmailTransportSMTP = "smtp"
	EmailTransportLog  = "log"
)

type Config struct {
	Port           int    `env:"PORT" envDefault:"8080"`
	IsTestMode     bool   `env:"TEST_MODE"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT"`
	Secret         string `env:"SECRET,required"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	PostgresqlURL string `env:"POSTGRESQL_URL"`
	SqlitePath    string `env:"SQLITE_PATH" envDefault:"adbridge.db"`
	RedisURL      string `env:"REDIS_URL,required"`

	BcryptHasherCost int           `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordResetTTL time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"10m"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SessionIssuer    string        `env:"SESSION_ISSUER" envDefault:"adbridge"`

	PasswordResetBaseURL url.URL `env:"PASSWORD_RESET_BASE_URL,required"`
	EmailTransport       string  `env:"EMAIL_TRANSPORT" envDefault:"ses"`
	EmailSender          string  `env:"EMAIL_SENDER"`

	AwsRegion                     string `env:"AWS_REGION" envDefault:"eu-west-3"`
	AwsAccessKey                  string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string `env:"AWS_SECRET_KEY"`
	AwsEmailPasswordResetTemplate string `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE" envDefault:"adbridge-password-reset"`

	SmtpHost     string `env:"SMTP_HOST"`
	SmtpPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SmtpUsername string `env:"SMTP_USERNAME"`
	SmtpPassword string `env:"SMTP_PASSWORD"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	PasswordResetRateLimit uint16 `env:"PASSWORD_RESET_RATE_LIMIT" envDefault:"5"`
	LogInRateLimit         uint16 `env:"LOG_IN_RATE_LIMIT" envDefault:"20"`
	SignUpRateLimit        uint16 `env:"SIGN_UP_RATE_LIMIT" envDefault:"10"`
}

// Load reads the environment. Variables from a .env file in the working
// directory are applied first without overriding already set ones.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	config := &Config{}
	if err := env.Parse(config, opts); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if len(c.Secret) < 32 {
		return errors.New("SECRET must be at least 32 characters long")
	}
	switch c.StorageDriver {
	case StoragePostgres:
		if c.PostgresqlURL == "" {
			return errors.New("POSTGRESQL_URL must be set")
		}
	case StorageSqlite:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER value: %q", c.StorageDriver)
	}
	switch c.EmailTransport {
	case EmailTransportSES, EmailTransportSMTP:
		if c.EmailSender == "" {
			return errors.New("EMAIL_SENDER must be set")
		}
	case EmailTransportLog:
		if !c.IsTestMode && !c.LogDevelopment {
			return errors.New("EMAIL_TRANSPORT=log requires TEST_MODE or LOG_DEVELOPMENT")
		}
	default:
		return fmt.Errorf("invalid EMAIL_TRANSPORT value: %q", c.EmailTransport)
	}
	if c.EmailTransport == EmailTransportSMTP && c.SmtpHost == "" {
		return errors.New("SMTP_HOST must be set")
	}
	if c.PasswordResetTTL <= 0 {
		return errors.New("PASSWORD_RESET_TTL must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}
