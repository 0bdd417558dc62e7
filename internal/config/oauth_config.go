package config

import "strings"

type OAuthConfig interface {
	GetTokenURL() string
	GetOAuthClientID() string
	GetOAuthClientSecret() string
	GetBearerURLPattern() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetTokenURL returns the token endpoint. Defaults to the realm's OpenID Connect token endpoint.
func (OAuth) GetTokenURL() string {
	if url := GetEnv("OAUTH_TOKEN_URL", ""); url != "" {
		return url
	}
	return strings.TrimSuffix(Keycloak{}.GetKeycloakIssuer(), "/") + "/protocol/openid-connect/token"
}

func (OAuth) GetOAuthClientID() string {
	return GetEnv("OAUTH_CLIENT_ID", Keycloak{}.GetKeycloakClientID())
}

func (OAuth) GetOAuthClientSecret() string {
	return GetEnv("OAUTH_CLIENT_SECRET", "")
}

// GetBearerURLPattern limits which outgoing URLs receive the bearer token
func (OAuth) GetBearerURLPattern() string {
	return GetEnv("BEARER_URL_PATTERN", `(?i)^(http://localhost:(8080|5000))(/.*)?$`)
}
