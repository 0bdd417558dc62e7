package server

import (
	"net/http"
	"strings"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("GET "+RouteSocialLogin, ChainMiddleware(s.SocialLoginHandler(), s.HTMLMiddleWare()...))

	s.RegisterRouteFunc("GET "+RouteHome, ChainMiddleware(s.HomeHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteFunc("GET "+RouteAdmin, ChainMiddleware(s.AdminHandler(), s.HTMLMiddleWare(s.RequireSession(), s.RequireRole(RoleAdmin))...))
	s.RegisterRouteFunc("GET "+RouteForbidden, ChainMiddleware(s.ForbiddenHandler(), s.HTMLMiddleWare()...))

	// Unknown paths land on the home page
	s.RegisterRouteFunc(RouteRoot, ChainMiddleware(s.RedirectHandler(RouteHome), s.HTMLMiddleWare()...))

	s.RegisterRouteFunc(RouteAPI, ChainMiddleware(s.api.ServeHTTP, s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())

	s.RegisterRouteFunc("GET "+RouteStaticCSS, ChainMiddleware(s.fileServer, s.LoggingMiddleware, s.CacheMiddleware))
}

// serveFileHandler streams embedded static assets
func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := StreamFile(w, r, filePath); err != nil {
			logError(r.Method, filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
		}
	}
}

func (s *Server) RedirectHandler(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}
