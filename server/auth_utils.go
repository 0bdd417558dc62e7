package server

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/LVRodrigues/fpa-management/sessions"
	"github.com/google/uuid"
)

const (
	// sessionCookieName is the cookie carrying the browser's signed session ID
	sessionCookieName = "fpa_session"

	// csrfFieldName is the login form field carrying the session bound form token
	csrfFieldName = "csrf_token"
)

// sessionSecret returns the configured signing key, or a random one when none is set
func sessionSecret(configured string) ([]byte, bool, error) {
	if configured != "" {
		return []byte(configured), false, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("[Server sessionSecret] %w", err)
	}
	return key, true, nil
}

func (s *Server) sign(purpose, id string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(purpose + ":" + id))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// sessionIDFromRequest returns the session ID from the cookie when the server issued it
func (s *Server) sessionIDFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	raw, signature, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id.String() != raw {
		return "", false
	}
	if !hmac.Equal([]byte(signature), []byte(s.sign("session", raw))) {
		return "", false
	}
	return raw, true
}

// csrfToken is the login form token of the session carried by r
func (s *Server) csrfToken(r *http.Request) string {
	session, ok := sessions.FromContext(r.Context())
	if !ok {
		return ""
	}
	return s.sign("csrf", session.ID)
}

// validCSRF reports whether the submitted form token belongs to the request's session
func (s *Server) validCSRF(r *http.Request) bool {
	expected := s.csrfToken(r)
	return expected != "" && hmac.Equal([]byte(r.PostFormValue(csrfFieldName)), []byte(expected))
}

func (s *Server) SetSessionCookie(w http.ResponseWriter, sessionID string, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID + "." + s.sign("session", sessionID),
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// redirectTarget keeps only same-site paths; anything else falls back to the home page
func redirectTarget(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return RouteHome
	}
	if target == RouteLogin || strings.HasPrefix(target, RouteLogin+"?") {
		return RouteHome
	}
	return target
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
