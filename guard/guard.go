package guard

import (
	"context"

	"github.com/LVRodrigues/fpa-management/auth"
	"github.com/LVRodrigues/fpa-management/claims"
	"github.com/rs/zerolog/log"
)

// ForbiddenRoute is where an authenticated user without the required role is sent
const ForbiddenRoute = "/forbidden"

// RoleKey is the route data entry naming the role a route requires
const RoleKey = "role"

type Outcome int

const (
	Allow Outcome = iota
	RedirectToLogin
	RedirectToForbidden
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "login"
	case RedirectToForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating a guard. Target is the route to navigate to when not allowed.
type Decision struct {
	Outcome Outcome
	Target  string
}

func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

var (
	allow     = Decision{Outcome: Allow}
	toLogin   = Decision{Outcome: RedirectToLogin, Target: auth.LoginRoute}
	forbidden = Decision{Outcome: RedirectToForbidden, Target: ForbiddenRoute}
)

// RouteData is static metadata attached to a route
type RouteData map[string]string

// Role returns the role the route requires, "" when none
func (d RouteData) Role() string {
	return d[RoleKey]
}

// Request is the navigation being attempted
type Request struct {
	URL  string
	Data RouteData
}

// Guard decides whether a navigation may complete
type Guard func(ctx context.Context, req Request) Decision

// SessionAuth is what the session guard needs from the auth service
type SessionAuth interface {
	Authenticated(ctx context.Context) (bool, error)
	SetRedirectURL(ctx context.Context, url string) error
}

// GrantSource is what the role guard needs from the auth service
type GrantSource interface {
	Authenticated(ctx context.Context) (bool, error)
	Grants(ctx context.Context) (claims.RoleGrants, error)
}

var (
	_ SessionAuth = (*auth.Service)(nil)
	_ GrantSource = (*auth.Service)(nil)
)

// RequireSession allows authenticated sessions. Otherwise the attempted URL becomes
// the redirect target and the user is sent to login. The token store is never modified.
func RequireSession(a SessionAuth) Guard {
	return func(ctx context.Context, req Request) Decision {
		ok, err := a.Authenticated(ctx)
		if err != nil {
			log.Warn().Err(err).Str("url", req.URL).Msg("Session check failed, treating as logged out")
		}
		if ok && err == nil {
			return allow
		}

		if err := a.SetRedirectURL(ctx, req.URL); err != nil {
			log.Warn().Err(err).Str("url", req.URL).Msg("Failed to remember redirect target")
		}
		return toLogin
	}
}

// RequireRole allows routes without a role requirement. A route naming a role is
// allowed only for an authenticated session granted that role by any resource or the realm.
func RequireRole(g GrantSource) Guard {
	return func(ctx context.Context, req Request) Decision {
		role := req.Data.Role()
		if role == "" {
			return allow
		}

		ok, err := g.Authenticated(ctx)
		if err != nil {
			log.Warn().Err(err).Str("url", req.URL).Msg("Session check failed, treating as logged out")
			return forbidden
		}
		if !ok {
			return forbidden
		}

		grants, err := g.Grants(ctx)
		if err != nil {
			log.Warn().Err(err).Str("url", req.URL).Msg("Failed to read role grants")
			return forbidden
		}
		if !grants.HasRole(role) {
			log.Debug().Str("url", req.URL).Str("role", role).Msg("Role not granted")
			return forbidden
		}
		return allow
	}
}

// Chain evaluates guards in order and returns the first decision that is not Allow
func Chain(guards ...Guard) Guard {
	return func(ctx context.Context, req Request) Decision {
		for _, g := range guards {
			if d := g(ctx, req); !d.Allowed() {
				return d
			}
		}
		return allow
	}
}
