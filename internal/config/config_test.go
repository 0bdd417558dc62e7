package config_test

import (
	"testing"
	"time"

	"github.com/LVRodrigues/fpa-management/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := config.New()

	require.Equal(t, ":4200", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "http://localhost:8080/realms/default", c.GetKeycloakIssuer())
	require.Equal(t, "http://localhost:8080/realms/default/protocol/openid-connect/token", c.GetTokenURL())
	require.Equal(t, "fpa-client", c.GetOAuthClientID())
	require.Equal(t, 5*time.Minute, c.GetSessionTimeout())
	require.Equal(t, 10*time.Minute, c.GetSessionTTL())
	require.Empty(t, c.GetSessionSecret())
	require.Equal(t, "memory", c.GetTokenStorage())
	require.False(t, c.GetVerifyTokens())
	require.Contains(t, c.GetVersion(), "-dev")
}

func TestOverrides(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("ENV", "PROD")
	t.Setenv("KEYCLOAK_URL", "https://sso.example.com/")
	t.Setenv("KEYCLOAK_REALM", "fpa")
	t.Setenv("OAUTH_TOKEN_URL", "https://auth.example.com/token")
	t.Setenv("APP_VERSION", "1.2.3")
	t.Setenv("KEYCLOAK_VERIFY", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	c := config.New()
	require.Equal(t, ":9000", c.GetPort())
	require.Equal(t, "https://sso.example.com/realms/fpa", c.GetKeycloakIssuer())
	require.Equal(t, "https://auth.example.com/token", c.GetTokenURL())
	require.Equal(t, "1.2.3", c.GetVersion())
	require.True(t, c.GetVerifyTokens())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("https://b.example.com"))
	require.False(t, c.GetAllowedOrigins().IsAllowedOrigin("https://c.example.com"))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("SESSION_TIMEOUT", "300000")
	require.Equal(t, 5*time.Minute, config.New().GetSessionTimeout())

	t.Setenv("SESSION_TIMEOUT", "90s")
	require.Equal(t, 90*time.Second, config.New().GetSessionTimeout())

	t.Setenv("SESSION_TIMEOUT", "soon")
	require.Equal(t, 5*time.Minute, config.New().GetSessionTimeout())
}

func TestGetSessionTTL(t *testing.T) {
	t.Setenv("SESSION_TIMEOUT", "0")
	require.Equal(t, 24*time.Hour, config.New().GetSessionTTL(), "disabled timeout")

	t.Setenv("SESSION_TIMEOUT", "15m")
	require.Equal(t, 30*time.Minute, config.New().GetSessionTTL())

	t.Setenv("SESSION_TTL", "1h")
	require.Equal(t, time.Hour, config.New().GetSessionTTL())
}
