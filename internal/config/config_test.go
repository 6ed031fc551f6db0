package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		App:  AppConfig{Env: "production"},
		Auth: AuthConfig{JWTSecret: "", TokenTTLHours: 24},
	}
	require.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = devSecretPlaceholder
	require.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "externally-supplied-secret"
	require.NoError(t, cfg.Validate())
}

func TestValidate_DevelopmentAllowsPlaceholder(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		App:  AppConfig{Env: "development"},
		Auth: AuthConfig{JWTSecret: devSecretPlaceholder, TokenTTLHours: 24},
	}
	require.NoError(t, cfg.Validate())
}

func TestValidate_RejectsNonPositiveTTL(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		App:  AppConfig{Env: "development"},
		Auth: AuthConfig{JWTSecret: "s", TokenTTLHours: 0},
	}
	require.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_NAME", "")
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "medical-records-service", cfg.App.Name)
	require.Equal(t, "token", cfg.Auth.CookieName)
	require.Equal(t, 24, cfg.Auth.TokenTTLHours)
	require.Equal(t, 100, cfg.RateLimit.MaxRequests)
	require.Equal(t, 900, cfg.RateLimit.WindowSeconds)
	require.False(t, cfg.IsProduction())
}
