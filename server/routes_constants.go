package server

import (
	"github.com/LVRodrigues/fpa-management/auth"
	"github.com/LVRodrigues/fpa-management/guard"
)

// Route path constants
const (
	RouteRoot        = "/"
	RouteLogin       = auth.LoginRoute
	RouteLogout      = "/logout"
	RouteSocialLogin = "/login/{provider}"
	RouteHome        = "/home"
	RouteAdmin       = "/admin"
	RouteForbidden   = guard.ForbiddenRoute
	RouteMetrics     = "/metrics"

	// RouteAPI is proxied to the API with the session's bearer token
	RouteAPI = "/api/"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)

// RoleAdmin is required by the admin page
const RoleAdmin = "admin"
