package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/LVRodrigues/fpa-management/auth"
	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/LVRodrigues/fpa-management/sessions"
	"github.com/LVRodrigues/fpa-management/tokenstore"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	endpoint *tokenEndpoint
	session  *sessions.Context
	nav      *auth.PendingNavigation
	service  *auth.Service
	now      time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	endpoint, server := newTokenEndpoint(t)
	f := &serviceFixture{
		endpoint: endpoint,
		session:  sessions.New(tokenstore.NewMemoryStorage(), "sid"),
		nav:      &auth.PendingNavigation{},
		now:      time.Date(2025, 1, 28, 8, 47, 33, 0, time.UTC),
	}
	service, err := auth.NewService(
		auth.NewTokenClient(oauthConfig{tokenURL: server.URL}, server.Client()),
		f.session,
		f.nav,
		auth.WithNowTime(func() time.Time { return f.now }),
	)
	require.NoError(t, err)
	f.service = service
	return f
}

func (f *serviceFixture) storeTokens(t *testing.T, access, refresh string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.session.Tokens.SaveToken(ctx, access))
	require.NoError(t, f.session.Tokens.SaveRefreshToken(ctx, refresh))
}

func (f *serviceFixture) requireTokens(t *testing.T, access, refresh string) {
	t.Helper()
	ctx := context.Background()
	got, err := f.session.Tokens.GetToken(ctx)
	require.NoError(t, err)
	require.Equal(t, access, got)
	got, err = f.session.Tokens.GetRefreshToken(ctx)
	require.NoError(t, err)
	require.Equal(t, refresh, got)
}

func accessToken(t *testing.T, expiry time.Time, realmRoles ...string) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp":                expiry.Unix(),
		"preferred_username": "john",
		"realm_access":       map[string]any{"roles": realmRoles},
		"resource_access":    map[string]any{"fpa-client": map[string]any{"roles": []string{"admin"}}},
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

func TestNewService_Validation(t *testing.T) {
	session := sessions.New(tokenstore.NewMemoryStorage(), "sid")

	_, err := auth.NewService(nil, session, nil)
	require.Error(t, err)

	_, err = auth.NewService(auth.NewTokenClient(oauthConfig{}, nil), nil, nil)
	require.Error(t, err)

	service, err := auth.NewService(auth.NewTokenClient(oauthConfig{}, nil), session, nil)
	require.NoError(t, err)
	require.NoError(t, service.Logout(context.Background()), "nil navigator is a no-op")
}

func TestLogin_ReplacesPriorTokens(t *testing.T) {
	f := newServiceFixture(t)
	f.storeTokens(t, "old-access", "old-refresh")

	pair, err := f.service.Login(context.Background(), auth.Credentials{Username: "john", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "A", pair.AccessToken)
	require.Equal(t, "R", pair.RefreshToken)
	f.requireTokens(t, "A", "R")
	require.True(t, f.service.IsLogged(context.Background()))
}

func TestLogin_FailureLeavesSessionEmpty(t *testing.T) {
	f := newServiceFixture(t)
	f.storeTokens(t, "old-access", "old-refresh")
	f.endpoint.respond(http.StatusUnauthorized, map[string]any{"error": "invalid_grant"})

	_, err := f.service.Login(context.Background(), auth.Credentials{Username: "john", Password: "bad"})
	require.ErrorIs(t, err, errors.ErrTokenRequest)
	f.requireTokens(t, "", "")
	require.False(t, f.service.IsLogged(context.Background()))
	require.Equal(t, auth.LoginRoute, f.nav.Route())
	require.Len(t, f.endpoint.requests(), 1)
}

func TestLogin_EmptyCredentials(t *testing.T) {
	f := newServiceFixture(t)

	for _, credentials := range []auth.Credentials{
		{Username: "", Password: "pw"},
		{Username: "john", Password: ""},
	} {
		_, err := f.service.Login(context.Background(), credentials)
		require.ErrorIs(t, err, errors.ErrInvalidCredentials)
	}
	require.Empty(t, f.endpoint.requests(), "endpoint is never contacted")
}

func TestRefreshToken(t *testing.T) {
	f := newServiceFixture(t)
	f.storeTokens(t, "A0", "R0")

	pair, err := f.service.RefreshToken(context.Background(), "R0")
	require.NoError(t, err)
	require.Equal(t, "A", pair.AccessToken)
	f.requireTokens(t, "A", "R")

	forms := f.endpoint.requests()
	require.Len(t, forms, 1)
	require.Equal(t, "refresh_token", forms[0].Get("grant_type"))
	require.Equal(t, "R0", forms[0].Get("refresh_token"))
}

func TestRefreshToken_KeepsRefreshTokenWhenNotRotated(t *testing.T) {
	f := newServiceFixture(t)
	f.storeTokens(t, "A0", "R0")
	f.endpoint.respond(http.StatusOK, map[string]any{"access_token": "A1", "token_type": "Bearer"})

	_, err := f.service.Refresh(context.Background())
	require.NoError(t, err)
	f.requireTokens(t, "A1", "R0")
}

func TestRefreshToken_Failure(t *testing.T) {
	f := newServiceFixture(t)
	f.storeTokens(t, "A0", "R0")
	f.endpoint.respond(http.StatusBadRequest, map[string]any{"error": "invalid_grant", "error_description": "Token is not active"})

	_, err := f.service.RefreshToken(context.Background(), "R0")
	require.ErrorIs(t, err, errors.ErrTokenRequest)
	f.requireTokens(t, "A0", "R0")

	_, err = f.service.RefreshToken(context.Background(), "")
	require.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
}

func TestRefresh_NotLoggedIn(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Refresh(context.Background())
	require.ErrorIs(t, err, errors.ErrNotLoggedIn)
	require.Empty(t, f.endpoint.requests())
}

func TestLogout(t *testing.T) {
	f := newServiceFixture(t)
	f.storeTokens(t, "A", "R")

	require.NoError(t, f.service.Logout(context.Background()))
	f.requireTokens(t, "", "")
	require.Equal(t, auth.LoginRoute, f.nav.Route())
	require.False(t, f.service.IsLogged(context.Background()))
}

func TestIsLogged_RefreshTokenDefinesSession(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.session.Tokens.SaveToken(ctx, "A"))
	require.False(t, f.service.IsLogged(ctx), "an access token alone is not a session")

	require.NoError(t, f.session.Tokens.RemoveToken(ctx))
	require.NoError(t, f.session.Tokens.SaveRefreshToken(ctx, "R"))
	require.True(t, f.service.IsLogged(ctx))
}

func TestRedirectURL(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.SetRedirectURL(ctx, "/home"))
	require.NoError(t, f.service.SetRedirectURL(ctx, "/admin"))

	url, err := f.service.RedirectURL(ctx)
	require.NoError(t, err)
	require.Equal(t, "/admin", url)

	url, err = f.service.ConsumeRedirectURL(ctx)
	require.NoError(t, err)
	require.Equal(t, "/admin", url)

	url, err = f.service.RedirectURL(ctx)
	require.NoError(t, err)
	require.Empty(t, url)
}

func TestGrants(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	grants, err := f.service.Grants(ctx)
	require.NoError(t, err)
	require.False(t, grants.HasRole("admin"), "no token, no roles")

	f.storeTokens(t, accessToken(t, f.now.Add(time.Hour), "user"), "R")
	grants, err = f.service.Grants(ctx)
	require.NoError(t, err)
	require.True(t, grants.HasRole("admin"))
	require.True(t, grants.HasRole("user"))
	require.False(t, grants.HasRole("auditor"))

	f.storeTokens(t, "not-a-jwt", "R")
	grants, err = f.service.Grants(ctx)
	require.ErrorIs(t, err, errors.ErrInvalidToken)
	require.False(t, grants.HasRole("admin"))
}

func TestEnsureFresh(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	refreshed, err := f.service.EnsureFresh(ctx, 30*time.Second)
	require.NoError(t, err)
	require.False(t, refreshed, "nothing to refresh without a session")

	f.storeTokens(t, accessToken(t, f.now.Add(time.Hour)), "R0")
	refreshed, err = f.service.EnsureFresh(ctx, 30*time.Second)
	require.NoError(t, err)
	require.False(t, refreshed)
	require.Empty(t, f.endpoint.requests())

	f.storeTokens(t, accessToken(t, f.now.Add(10*time.Second)), "R0")
	refreshed, err = f.service.EnsureFresh(ctx, 30*time.Second)
	require.NoError(t, err)
	require.True(t, refreshed)
	f.requireTokens(t, "A", "R")

	forms := f.endpoint.requests()
	require.Len(t, forms, 1)
	require.Equal(t, "R0", forms[0].Get("refresh_token"))
}

func TestEnsureFresh_MissingOrOpaqueAccessToken(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.storeTokens(t, "opaque", "R0")
	refreshed, err := f.service.EnsureFresh(ctx, 30*time.Second)
	require.NoError(t, err)
	require.False(t, refreshed, "no readable expiry")

	require.NoError(t, f.session.Tokens.RemoveToken(ctx))
	refreshed, err = f.service.EnsureFresh(ctx, 30*time.Second)
	require.NoError(t, err)
	require.True(t, refreshed, "a missing access token is renewed")
	f.requireTokens(t, "A", "R")
}

func TestSocialLogin(t *testing.T) {
	f := newServiceFixture(t)

	for _, provider := range []string{"google", "facebook", "microsoft"} {
		err := f.service.SocialLogin(context.Background(), provider)
		require.ErrorIs(t, err, errors.ErrNotImplemented)
	}
}
