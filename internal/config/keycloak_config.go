package config

import (
	"fmt"
	"strings"
)

type KeycloakConfig interface {
	GetKeycloakURL() string
	GetKeycloakRealm() string
	GetKeycloakClientID() string
	GetKeycloakIssuer() string
	GetVerifyTokens() bool
}

type Keycloak struct{}

var _ KeycloakConfig = Keycloak{}

func (Keycloak) GetKeycloakURL() string {
	return GetEnv("KEYCLOAK_URL", "http://localhost:8080")
}

func (Keycloak) GetKeycloakRealm() string {
	return GetEnv("KEYCLOAK_REALM", "default")
}

func (Keycloak) GetKeycloakClientID() string {
	return GetEnv("KEYCLOAK_CLIENT_ID", "fpa-client")
}

// GetKeycloakIssuer returns the realm issuer, e.g. http://localhost:8080/realms/default
func (k Keycloak) GetKeycloakIssuer() string {
	return fmt.Sprintf("%s/realms/%s", strings.TrimSuffix(k.GetKeycloakURL(), "/"), k.GetKeycloakRealm())
}

// GetVerifyTokens enables signature verification of access tokens against the realm JWKS
func (Keycloak) GetVerifyTokens() bool {
	return GetEnvBool("KEYCLOAK_VERIFY", false)
}
