package server

import (
	"net/http"
	"time"

	"github.com/LVRodrigues/fpa-management/auth"
	"github.com/LVRodrigues/fpa-management/guard"
	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/LVRodrigues/fpa-management/sessions"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SessionMiddleware attaches the browser's session scope to the request context.
// An inactive session is logged out; an access token close to expiry is refreshed.
// Nothing is stored for a session until it holds a redirect target or tokens.
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.sessionIDFromRequest(r)
		if !ok {
			id = uuid.NewString()
			s.SetSessionCookie(w, id, r)
		}

		ctx := r.Context()
		session := sessions.New(s.storage, id)
		svc, _, err := s.newAuthService(session)
		if err != nil {
			log.Err(err).Msg("Failed to create auth service")
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}

		now := s.nowTime()
		last, err := session.LastActivity(ctx)
		if err != nil {
			log.Warn().Err(err).Str("session", id).Msg("Failed to read session activity")
		}
		tracked := !last.IsZero()
		if tracked {
			s.checkActivity(r, svc, session, now)
		}

		next(w, r.WithContext(sessions.NewContext(ctx, session)))

		if !tracked {
			held, err := session.HoldsState(ctx)
			if err != nil {
				log.Warn().Err(err).Str("session", id).Msg("Failed to read session state")
			}
			if !held {
				return
			}
			if err := session.Touch(ctx, now); err != nil {
				log.Warn().Err(err).Str("session", id).Msg("Failed to record session activity")
			}
		}
	}
}

// checkActivity logs an idle session out or keeps its tokens fresh, then records the activity
func (s *Server) checkActivity(r *http.Request, svc *auth.Service, session *sessions.Context, now time.Time) {
	ctx := r.Context()
	idle, err := session.Idle(ctx, now, s.config.GetSessionTimeout())
	if err != nil {
		log.Warn().Err(err).Str("session", session.ID).Msg("Failed to read session activity")
	}
	if idle && svc.IsLogged(ctx) {
		log.Info().Str("session", session.ID).Msg("Session inactive, logging out")
		if err := svc.Logout(ctx); err != nil {
			log.Warn().Err(err).Str("session", session.ID).Msg("Failed to log out inactive session")
		}
		s.metrics.SessionTimeouts.Inc()
	} else if !idle {
		s.refresh(r, svc, session.ID)
	}

	if err := session.Touch(ctx, now); err != nil {
		log.Warn().Err(err).Str("session", session.ID).Msg("Failed to record session activity")
	}
}

// rotateSession moves the request's session to a fresh ID and reissues the cookie
func (s *Server) rotateSession(w http.ResponseWriter, r *http.Request) error {
	session, ok := sessions.FromContext(r.Context())
	if !ok {
		return errors.Wrapf(errors.ErrInvalidSession, "[Server rotateSession] request has no session")
	}
	rotated, err := session.Rotate(r.Context(), uuid.NewString())
	if err != nil {
		return err
	}
	if err := rotated.Touch(r.Context(), s.nowTime()); err != nil {
		return err
	}
	s.SetSessionCookie(w, rotated.ID, r)
	log.Debug().Str("from", session.ID).Str("to", rotated.ID).Msg("Session rotated")
	return nil
}

// refresh renews the token pair ahead of expiry. A rejected refresh token ends the session.
func (s *Server) refresh(r *http.Request, svc *auth.Service, id string) {
	ctx := r.Context()
	refreshed, err := svc.EnsureFresh(ctx, s.config.GetRefreshLeeway())
	if !refreshed {
		if err != nil {
			log.Warn().Err(err).Str("session", id).Msg("Failed to check token expiry")
		}
		return
	}
	if err == nil {
		s.metrics.TokenRefreshes.WithLabelValues(resultSuccess).Inc()
		return
	}

	s.metrics.TokenRefreshes.WithLabelValues(resultFailure).Inc()
	if errors.Is(err, errors.ErrTokenRequest) {
		log.Info().Err(err).Str("session", id).Msg("Refresh rejected, logging out")
		if err := svc.Logout(ctx); err != nil {
			log.Warn().Err(err).Str("session", id).Msg("Failed to log out session")
		}
	}
}

// RequireSession sends visitors without a session to the login page, remembering where they were going
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return s.guardMiddleware(nil, func(a authService) guard.Guard {
		return guard.RequireSession(a)
	})
}

// RequireRole sends sessions without role to the forbidden page
func (s *Server) RequireRole(role string) func(http.HandlerFunc) http.HandlerFunc {
	return s.guardMiddleware(guard.RouteData{guard.RoleKey: role}, func(a authService) guard.Guard {
		return guard.RequireRole(a)
	})
}

type authService interface {
	guard.SessionAuth
	guard.GrantSource
}

func (s *Server) guardMiddleware(data guard.RouteData, build func(authService) guard.Guard) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			svc, _, err := s.authService(r)
			if err != nil {
				log.Err(err).Msg("Guard without session")
				http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
				return
			}

			decision := build(svc)(r.Context(), guard.Request{URL: r.URL.RequestURI(), Data: data})
			s.metrics.GuardDecisions.WithLabelValues(decision.Outcome.String()).Inc()
			if !decision.Allowed() {
				redirectSuccess(w, r, decision.Target)
				return
			}
			next(w, r)
		}
	}
}
