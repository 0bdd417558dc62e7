package claims

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Access is a Keycloak role container (realm_access or one entry of resource_access)
type Access struct {
	Roles []string `json:"roles"`
}

// AccessClaims are the Keycloak access token claims the client cares about
type AccessClaims struct {
	jwt.RegisteredClaims
	AuthorizedParty   string            `json:"azp,omitempty"`
	Scope             string            `json:"scope,omitempty"`
	PreferredUsername string            `json:"preferred_username,omitempty"`
	Email             string            `json:"email,omitempty"`
	RealmAccess       Access            `json:"realm_access"`
	ResourceAccess    map[string]Access `json:"resource_access,omitempty"`
}

// Grants derives the Role Grant Set
func (c *AccessClaims) Grants() RoleGrants {
	grants := RoleGrants{
		ResourceRoles: make(map[string][]string, len(c.ResourceAccess)),
		RealmRoles:    append([]string(nil), c.RealmAccess.Roles...),
	}
	for resource, access := range c.ResourceAccess {
		grants.ResourceRoles[resource] = append([]string(nil), access.Roles...)
	}
	return grants
}

// Expiry returns the exp claim, zero when absent
func (c *AccessClaims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Extractor turns a raw access token into its claims
type Extractor interface {
	Extract(ctx context.Context, rawToken string) (*AccessClaims, error)
}
