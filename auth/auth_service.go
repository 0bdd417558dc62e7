package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/LVRodrigues/fpa-management/claims"
	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/LVRodrigues/fpa-management/oauthmodel"
	"github.com/LVRodrigues/fpa-management/sessions"
	"github.com/rs/zerolog/log"
)

// Credentials are the resource owner's username and password
type Credentials struct {
	Username string
	Password string
}

// Service owns the session lifecycle: login, refresh, logout and the redirect target.
// It is the only writer of the session's token store.
type Service struct {
	issuer    TokenIssuer
	session   *sessions.Context
	navigator Navigator
	extractor claims.Extractor
	nowTime   func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime overrides the clock used for expiry checks
func WithNowTime(f func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = f
	}
}

// WithExtractor sets how access tokens are turned into claims. Defaults to an unverified parser.
func WithExtractor(extractor claims.Extractor) ServiceOption {
	return func(s *Service) {
		s.extractor = extractor
	}
}

// NewService creates an auth service bound to one session scope
func NewService(issuer TokenIssuer, session *sessions.Context, navigator Navigator, options ...ServiceOption) (*Service, error) {
	if issuer == nil {
		return nil, errors.New("[NewService] token issuer is required")
	}
	if session == nil {
		return nil, errors.New("[NewService] session is required")
	}
	if navigator == nil {
		navigator = NavigatorFunc(func(string) {})
	}

	s := &Service{
		issuer:    issuer,
		session:   session,
		navigator: navigator,
		extractor: claims.NewParser(),
		nowTime:   time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

// Login clears the current session and exchanges credentials for a new token pair.
// The pair is only stored when the token endpoint answers successfully.
func (s *Service) Login(ctx context.Context, credentials Credentials) (oauthmodel.TokenPair, error) {
	if err := s.Logout(ctx); err != nil {
		return oauthmodel.TokenPair{}, errors.Wrapf(err, "[auth Login] failed to clear session")
	}
	if credentials.Username == "" || credentials.Password == "" {
		return oauthmodel.TokenPair{}, errors.Wrapf(errors.ErrInvalidCredentials, "[auth Login] username and password are required")
	}

	pair, err := s.issuer.PasswordGrant(ctx, credentials)
	if err != nil {
		log.Warn().Err(err).Str("session", s.session.ID).Str("username", credentials.Username).Msg("Login rejected")
		return oauthmodel.TokenPair{}, errors.Wrapf(err, "[auth Login]")
	}
	if err := s.save(ctx, pair); err != nil {
		return oauthmodel.TokenPair{}, errors.Wrapf(err, "[auth Login] failed to store tokens")
	}

	log.Info().Str("session", s.session.ID).Str("username", credentials.Username).Msg("Logged in")
	return pair, nil
}

// RefreshToken exchanges refreshToken for a renewed pair and stores it.
// The old refresh token is kept when the server does not send a new one.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (oauthmodel.TokenPair, error) {
	if refreshToken == "" {
		return oauthmodel.TokenPair{}, errors.Wrapf(errors.ErrInvalidRefreshToken, "[auth RefreshToken] refresh token is required")
	}

	pair, err := s.issuer.RefreshGrant(ctx, refreshToken)
	if err != nil {
		log.Warn().Err(err).Str("session", s.session.ID).Msg("Token refresh rejected")
		return oauthmodel.TokenPair{}, errors.Wrapf(err, "[auth RefreshToken]")
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}
	if err := s.save(ctx, pair); err != nil {
		return oauthmodel.TokenPair{}, errors.Wrapf(err, "[auth RefreshToken] failed to store tokens")
	}

	log.Debug().Str("session", s.session.ID).Msg("Tokens refreshed")
	return pair, nil
}

// Refresh renews the pair using the stored refresh token
func (s *Service) Refresh(ctx context.Context) (oauthmodel.TokenPair, error) {
	refreshToken, err := s.session.Tokens.GetRefreshToken(ctx)
	if err != nil {
		return oauthmodel.TokenPair{}, errors.Wrapf(err, "[auth Refresh] failed to read refresh token")
	}
	if refreshToken == "" {
		return oauthmodel.TokenPair{}, errors.Wrapf(errors.ErrNotLoggedIn, "[auth Refresh]")
	}
	return s.RefreshToken(ctx, refreshToken)
}

// Logout removes both tokens and navigates to the login route.
// Navigation happens even when a removal fails.
func (s *Service) Logout(ctx context.Context) error {
	err := errors.Join(
		s.session.Tokens.RemoveToken(ctx),
		s.session.Tokens.RemoveRefreshToken(ctx),
	)
	s.navigator.Navigate(LoginRoute)
	if err != nil {
		return errors.Wrapf(err, "[auth Logout] failed to remove tokens")
	}
	return nil
}

// Authenticated reports whether the session holds a refresh token
func (s *Service) Authenticated(ctx context.Context) (bool, error) {
	refreshToken, err := s.session.Tokens.GetRefreshToken(ctx)
	if err != nil {
		return false, errors.Wrapf(err, "[auth Authenticated] failed to read refresh token")
	}
	return refreshToken != "", nil
}

// IsLogged is Authenticated with storage failures reported as logged out
func (s *Service) IsLogged(ctx context.Context) bool {
	ok, err := s.Authenticated(ctx)
	if err != nil {
		log.Warn().Err(err).Str("session", s.session.ID).Msg("Treating session as logged out")
		return false
	}
	return ok
}

func (s *Service) SetRedirectURL(ctx context.Context, url string) error {
	return s.session.SetRedirectURL(ctx, url)
}

func (s *Service) RedirectURL(ctx context.Context) (string, error) {
	return s.session.RedirectURL(ctx)
}

// ConsumeRedirectURL returns the pending redirect target and clears it
func (s *Service) ConsumeRedirectURL(ctx context.Context) (string, error) {
	return s.session.ConsumeRedirectURL(ctx)
}

// Claims decodes the stored access token. It returns nil claims without error when no token is stored.
func (s *Service) Claims(ctx context.Context) (*claims.AccessClaims, error) {
	token, err := s.session.Tokens.GetToken(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "[auth Claims] failed to read access token")
	}
	if token == "" {
		return nil, nil
	}
	return s.extractor.Extract(ctx, token)
}

// Grants returns the role grant set of the stored access token, empty when there is none
func (s *Service) Grants(ctx context.Context) (claims.RoleGrants, error) {
	accessClaims, err := s.Claims(ctx)
	if err != nil || accessClaims == nil {
		return claims.RoleGrants{}, err
	}
	return accessClaims.Grants(), nil
}

// EnsureFresh refreshes the pair when the access token is missing, expired or expires
// within leeway. Tokens without a readable exp claim are left alone.
// It reports whether a refresh was attempted.
func (s *Service) EnsureFresh(ctx context.Context, leeway time.Duration) (bool, error) {
	refreshToken, err := s.session.Tokens.GetRefreshToken(ctx)
	if err != nil || refreshToken == "" {
		return false, err
	}

	accessClaims, err := s.Claims(ctx)
	switch {
	case errors.Is(err, errors.ErrTokenExpired):
	case err != nil:
		log.Debug().Err(err).Str("session", s.session.ID).Msg("Access token expiry unknown, not refreshing")
		return false, nil
	case accessClaims != nil:
		expiry := accessClaims.Expiry()
		if expiry.IsZero() || expiry.After(s.nowTime().Add(leeway)) {
			return false, nil
		}
	}

	_, err = s.RefreshToken(ctx, refreshToken)
	return true, err
}

// SocialLogin is the entry point for Google, Facebook and Microsoft sign in. None is supported.
func (s *Service) SocialLogin(_ context.Context, provider string) error {
	err := fmt.Errorf("[auth SocialLogin] %s login: %w", provider, errors.ErrNotImplemented)
	log.Error().Err(err).Str("session", s.session.ID).Str("provider", provider).Msg("Social login requested")
	return err
}

func (s *Service) save(ctx context.Context, pair oauthmodel.TokenPair) error {
	if err := s.session.Tokens.SaveToken(ctx, pair.AccessToken); err != nil {
		return err
	}
	return s.session.Tokens.SaveRefreshToken(ctx, pair.RefreshToken)
}
