package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LVRodrigues/fpa-management/auth"
	"github.com/LVRodrigues/fpa-management/claims"
	"github.com/LVRodrigues/fpa-management/internal/config"
	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/LVRodrigues/fpa-management/sessions"
	"github.com/LVRodrigues/fpa-management/tokenstore"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	fileServer http.HandlerFunc
	config     config.Config
	storage    tokenstore.Storage
	issuer     auth.TokenIssuer
	extractor  claims.Extractor
	apiBase    http.RoundTripper
	api        http.Handler
	metrics    *Metrics
	secret     []byte
	nowTime    func() time.Time
}

type Option func(*Server)

// WithTokenIssuer replaces the token endpoint client
func WithTokenIssuer(issuer auth.TokenIssuer) Option {
	return func(s *Server) {
		s.issuer = issuer
	}
}

// WithExtractor sets how access tokens are decoded into claims
func WithExtractor(extractor claims.Extractor) Option {
	return func(s *Server) {
		s.extractor = extractor
	}
}

// WithAPITransport sets the transport the API proxy sends requests through, below the auth interceptor
func WithAPITransport(base http.RoundTripper) Option {
	return func(s *Server) {
		s.apiBase = base
	}
}

func WithNowTime(f func() time.Time) Option {
	return func(s *Server) {
		s.nowTime = f
	}
}

// New creates the web front-end. Every browser session gets its own scope inside storage.
func New(cfg config.Config, storage tokenstore.Storage, options ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[Server New] config is required")
	}
	if storage == nil {
		return nil, errors.New("[Server New] token storage is required")
	}

	secret, generated, err := sessionSecret(cfg.GetSessionSecret())
	if err != nil {
		return nil, err
	}
	if generated {
		log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart or span instances")
	}

	s := &Server{
		secret:    secret,
		env:       cfg.GetEnv(),
		mux:       http.NewServeMux(),
		config:    cfg,
		storage:   storage,
		extractor: claims.NewParser(),
		metrics:   NewMetrics(),
		nowTime:   time.Now,
	}
	for _, option := range options {
		option(s)
	}
	if s.issuer == nil {
		s.issuer = auth.NewTokenClient(cfg, nil)
	}

	api, err := s.newAPIProxy()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create API proxy: %w", err)
	}
	s.api = api
	s.fileServer = s.serveFileHandler()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Metrics exposes the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// authService binds the auth service to the session carried by r
func (s *Server) authService(r *http.Request) (*auth.Service, *auth.PendingNavigation, error) {
	session, ok := sessions.FromContext(r.Context())
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrInvalidSession, "[Server authService] request has no session")
	}
	return s.newAuthService(session)
}

func (s *Server) newAuthService(session *sessions.Context) (*auth.Service, *auth.PendingNavigation, error) {
	nav := &auth.PendingNavigation{}
	svc, err := auth.NewService(s.issuer, session, nav,
		auth.WithExtractor(s.extractor),
		auth.WithNowTime(s.nowTime),
	)
	if err != nil {
		return nil, nil, err
	}
	return svc, nav, nil
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

func logError(method, path, error string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	errorString := Red + error + ResetColor
	log.Error().Msgf("[%-19s] %s %s", displayMethod, path, errorString)
}
