package server

import (
	"context"
	"html/template"
	"net/http"

	"github.com/LVRodrigues/fpa-management/auth"
	"github.com/rs/zerolog/log"
)

// LayoutData feeds the header and footer shared by every page
type LayoutData struct {
	AppName  string
	Title    string
	Version  string
	Release  string
	LoggedIn bool
	Username string
}

// PageData contains data for rendering the home and admin pages
type PageData struct {
	Layout LayoutData
	Email  string
	Roles  []string
}

func (s *Server) layoutData(title string) LayoutData {
	return LayoutData{
		AppName: s.config.GetAppName(),
		Title:   title,
		Version: s.config.GetVersion(),
		Release: s.config.GetRelease(),
	}
}

// pageData describes the signed in user from the stored access token
func (s *Server) pageData(ctx context.Context, title string, svc *auth.Service) PageData {
	data := PageData{Layout: s.layoutData(title)}
	data.Layout.LoggedIn = svc.IsLogged(ctx)

	accessClaims, err := svc.Claims(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read access token claims")
		return data
	}
	if accessClaims == nil {
		return data
	}
	data.Layout.Username = accessClaims.PreferredUsername
	data.Email = accessClaims.Email
	data.Roles = accessClaims.Grants().Roles()
	return data
}

// HomeHandler renders the home page (GET /home)
func (s *Server) HomeHandler() http.HandlerFunc {
	return s.pageHandler("home.html", "Home")
}

// AdminHandler renders the admin page (GET /admin)
func (s *Server) AdminHandler() http.HandlerFunc {
	return s.pageHandler("admin.html", "Administration")
}

func (s *Server) pageHandler(name, title string) http.HandlerFunc {
	tmpl := mustParseTemplate(name)

	return func(w http.ResponseWriter, r *http.Request) {
		svc, _, err := s.authService(r)
		if err != nil {
			log.Err(err).Str("page", name).Msg("Page without session")
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.render(w, tmpl, http.StatusOK, s.pageData(r.Context(), title, svc))
	}
}

// ForbiddenHandler tells a signed in user the page needs a role they do not have (GET /forbidden)
func (s *Server) ForbiddenHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("forbidden.html")

	return func(w http.ResponseWriter, r *http.Request) {
		data := PageData{Layout: s.layoutData("Forbidden")}
		if svc, _, err := s.authService(r); err == nil {
			data = s.pageData(r.Context(), "Forbidden", svc)
		}
		s.render(w, tmpl, http.StatusForbidden, data)
	}
}

func (s *Server) render(w http.ResponseWriter, tmpl *template.Template, status int, data any) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
	}
}
