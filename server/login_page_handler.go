package server

import (
	"html/template"
	"net/http"

	"github.com/LVRodrigues/fpa-management/auth"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"

	// loginFailedMessage is shown for every failed login, whatever the cause
	loginFailedMessage = "Invalid username or password."
)

// socialProviders are offered on the login page; none of them is wired to a provider
var socialProviders = []string{"google", "facebook", "microsoft"}

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	Layout    LayoutData
	Username  string // Preserved on error
	Error     string
	CSRFToken string
	Providers []string
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		s.renderLogin(w, r, loginTmpl, http.StatusOK, LoginPageData{Layout: s.layoutData("Login")})
	}
}

// LoginSubmissionHandler processes the login form (POST /login). Success resumes the
// navigation a guard blocked, or lands on the home page.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		svc, _, err := s.authService(r)
		if err != nil {
			log.Err(err).Msg("Login without session")
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}

		username := r.PostFormValue("username")
		if !s.validCSRF(r) {
			s.metrics.Logins.WithLabelValues(resultFailure).Inc()
			log.Warn().Str("username", username).Msg("Login form token mismatch")
			s.renderLogin(w, r, loginTmpl, http.StatusForbidden, LoginPageData{
				Layout:   s.layoutData("Login"),
				Username: username,
				Error:    loginFailedMessage,
			})
			return
		}

		credentials := auth.Credentials{Username: username, Password: r.PostFormValue("password")}
		if _, err := svc.Login(r.Context(), credentials); err != nil {
			s.metrics.Logins.WithLabelValues(resultFailure).Inc()
			log.Warn().Err(err).Str("username", username).Msg("Login failed")
			s.renderLogin(w, r, loginTmpl, http.StatusUnauthorized, LoginPageData{
				Layout:   s.layoutData("Login"),
				Username: username,
				Error:    loginFailedMessage,
			})
			return
		}
		s.metrics.Logins.WithLabelValues(resultSuccess).Inc()

		target, err := svc.ConsumeRedirectURL(r.Context())
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read redirect target")
		}
		if err := s.rotateSession(w, r); err != nil {
			log.Err(err).Str("username", username).Msg("Failed to rotate session")
			if err := svc.Logout(r.Context()); err != nil {
				log.Err(err).Msg("Failed to log out after rotation failure")
			}
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}
		redirectSuccess(w, r, redirectTarget(target))
	}
}

// LogoutHandler ends the session (GET /logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, nav, err := s.authService(r)
		if err != nil {
			log.Err(err).Msg("Logout without session")
			redirectSuccess(w, r, RouteLogin)
			return
		}
		if err := svc.Logout(r.Context()); err != nil {
			log.Err(err).Msg("Failed to log out")
		}
		redirectSuccess(w, r, nav.Route())
	}
}

// SocialLoginHandler is the entry point of the social sign in buttons (GET /login/{provider})
func (s *Server) SocialLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, _, err := s.authService(r)
		if err != nil {
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}
		_ = svc.SocialLogin(r.Context(), r.PathValue("provider"))
		http.Error(w, "501 - Social login is not available", http.StatusNotImplemented)
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, tmpl *template.Template, status int, data LoginPageData) {
	data.CSRFToken = s.csrfToken(r)
	data.Providers = socialProviders
	s.render(w, tmpl, status, data)
}
