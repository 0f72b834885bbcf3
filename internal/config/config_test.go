package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 1440, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 10080, cfg.Auth.RefreshTokenTTLMinutes)
	assert.Equal(t, "bcrypt", cfg.Auth.RefreshHasher)
	assert.Equal(t, devJWTSecret, cfg.Auth.JWTSecret)
	assert.False(t, cfg.OTP.TwilioEnabled())
	assert.Equal(t, 30*time.Second, cfg.Cache.OnboardingCountTTL())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoadRequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "AUTH_JWT_SECRET")
}

func TestValidateTwilioCredentials(t *testing.T) {
	base := Config{
		App:  AppConfig{Env: "production"},
		Auth: AuthConfig{JWTSecret: "s", RefreshHasher: "bcrypt"},
	}

	partial := base
	partial.OTP = OTPConfig{TwilioAccountSID: "AC123"}
	assert.Error(t, partial.Validate())

	missing := base
	assert.ErrorContains(t, missing.Validate(), "twilio")

	full := base
	full.OTP = OTPConfig{TwilioAccountSID: "AC123", TwilioAuthToken: "tok", TwilioServiceSID: "VA123"}
	assert.NoError(t, full.Validate())
	assert.True(t, full.OTP.TwilioEnabled())
}

func TestValidateRefreshHasher(t *testing.T) {
	cfg := Config{
		App:  AppConfig{Env: "development"},
		Auth: AuthConfig{JWTSecret: "s", RefreshHasher: "md5"},
	}
	assert.ErrorContains(t, cfg.Validate(), "AUTH_REFRESH_HASHER")

	cfg.Auth.RefreshHasher = "ARGON2ID"
	assert.NoError(t, cfg.Validate())
}

func TestCacheTTLDisabled(t *testing.T) {
	assert.Zero(t, CacheConfig{OnboardingCountSeconds: 0}.OnboardingCountTTL())
	assert.Zero(t, AppConfig{RequestTimeoutSeconds: -1}.RequestTimeout())
}
