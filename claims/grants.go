package claims

import (
	"slices"
	"sort"
)

// RoleGrants is the read-only set of role claims the identity provider put in the access token
type RoleGrants struct {
	ResourceRoles map[string][]string // client ID -> roles
	RealmRoles    []string
}

// HasRole reports whether role is granted by any resource or by the realm
func (g RoleGrants) HasRole(role string) bool {
	if role == "" {
		return false
	}
	for _, roles := range g.ResourceRoles {
		if slices.Contains(roles, role) {
			return true
		}
	}
	return slices.Contains(g.RealmRoles, role)
}

// HasResourceRole reports whether role is granted for the given resource only
func (g RoleGrants) HasResourceRole(resource, role string) bool {
	return slices.Contains(g.ResourceRoles[resource], role)
}

// Roles returns every granted role name once, sorted
func (g RoleGrants) Roles() []string {
	seen := make(map[string]struct{})
	for _, roles := range g.ResourceRoles {
		for _, r := range roles {
			seen[r] = struct{}{}
		}
	}
	for _, r := range g.RealmRoles {
		seen[r] = struct{}{}
	}

	roles := make([]string, 0, len(seen))
	for r := range seen {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}
