package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	OTP      OTPConfig
	Events   EventsConfig
	Cache    CacheConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"field-report-auth"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"8080"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Username string `env:"REDIS_USERNAME"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines token issuance parameters.
type AuthConfig struct {
	JWTSecret              string `env:"AUTH_JWT_SECRET"`
	AccessTokenTTLMinutes  int    `env:"AUTH_ACCESS_TOKEN_TTL_MINUTES" envDefault:"1440"`
	RefreshTokenTTLMinutes int    `env:"AUTH_REFRESH_TOKEN_TTL_MINUTES" envDefault:"10080"`
	RefreshHasher          string `env:"AUTH_REFRESH_HASHER" envDefault:"bcrypt"`
	BcryptCost             int    `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

// OTPConfig selects and configures the one-time passcode gateway.
type OTPConfig struct {
	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioServiceSID string `env:"TWILIO_SERVICE_SID"`
	Channel          string `env:"OTP_CHANNEL" envDefault:"sms"`
	DevCode          string `env:"OTP_DEV_CODE" envDefault:"111111"`
}

// EventsConfig controls forwarding of auth events.
type EventsConfig struct {
	NATSURL       string `env:"NATS_URL"`
	SubjectPrefix string `env:"EVENTS_SUBJECT_PREFIX" envDefault:"auth"`
}

// CacheConfig tunes Redis-backed caches.
type CacheConfig struct {
	OnboardingCountSeconds int `env:"ONBOARDING_COUNT_CACHE_SECONDS" envDefault:"30"`
}

const devJWTSecret = "dev-secret"

// Load reads configuration from the environment, applying defaults where possible.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Auth.JWTSecret == "" && cfg.App.IsDevelopment() {
		cfg.Auth.JWTSecret = devJWTSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}
	switch strings.ToLower(c.Auth.RefreshHasher) {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("invalid AUTH_REFRESH_HASHER %q", c.Auth.RefreshHasher)
	}
	set := 0
	for _, v := range []string{c.OTP.TwilioAccountSID, c.OTP.TwilioAuthToken, c.OTP.TwilioServiceSID} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_SERVICE_SID must be set together")
	}
	if set == 0 && !c.App.IsDevelopment() {
		return errors.New("twilio credentials are required outside development")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsDevelopment reports whether the service runs in a development environment.
func (a AppConfig) IsDevelopment() bool {
	return strings.EqualFold(a.Env, "development")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TwilioEnabled reports whether Twilio Verify credentials are configured.
func (o OTPConfig) TwilioEnabled() bool {
	return o.TwilioAccountSID != "" && o.TwilioAuthToken != "" && o.TwilioServiceSID != ""
}

// OnboardingCountTTL returns how long the onboarding module count may be cached.
func (c CacheConfig) OnboardingCountTTL() time.Duration {
	if c.OnboardingCountSeconds <= 0 {
		return 0
	}
	return time.Duration(c.OnboardingCountSeconds) * time.Second
}
