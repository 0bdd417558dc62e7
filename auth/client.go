package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/LVRodrigues/fpa-management/internal/config"
	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/LVRodrigues/fpa-management/oauthmodel"
	"golang.org/x/oauth2"
)

const defaultTokenRequestTimeout = 10 * time.Second

// TokenIssuer obtains token pairs from the identity provider
type TokenIssuer interface {
	PasswordGrant(ctx context.Context, credentials Credentials) (oauthmodel.TokenPair, error)
	RefreshGrant(ctx context.Context, refreshToken string) (oauthmodel.TokenPair, error)
}

// TokenClient talks to the OAuth2 token endpoint. Client credentials travel in the
// form-encoded body, never in a Basic header.
type TokenClient struct {
	config     *oauth2.Config
	httpClient *http.Client
}

var _ TokenIssuer = (*TokenClient)(nil)

// NewTokenClient creates a token endpoint client. A nil httpClient gets a client with a 10s timeout.
func NewTokenClient(cfg config.OAuthConfig, httpClient *http.Client) *TokenClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTokenRequestTimeout}
	}
	return &TokenClient{
		config: &oauth2.Config{
			ClientID:     cfg.GetOAuthClientID(),
			ClientSecret: cfg.GetOAuthClientSecret(),
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.GetTokenURL(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

// PasswordGrant posts grant_type=password with the user's credentials
func (c *TokenClient) PasswordGrant(ctx context.Context, credentials Credentials) (oauthmodel.TokenPair, error) {
	token, err := c.config.PasswordCredentialsToken(c.withHTTPClient(ctx), credentials.Username, credentials.Password)
	if err != nil {
		return oauthmodel.TokenPair{}, tokenError(oauthmodel.PasswordGrant, err)
	}
	return tokenPair(token), nil
}

// RefreshGrant posts grant_type=refresh_token. When the server does not rotate the
// refresh token the one sent is returned.
func (c *TokenClient) RefreshGrant(ctx context.Context, refreshToken string) (oauthmodel.TokenPair, error) {
	token, err := c.config.TokenSource(c.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return oauthmodel.TokenPair{}, tokenError(oauthmodel.RefreshTokenGrant, err)
	}
	return tokenPair(token), nil
}

func (c *TokenClient) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func tokenPair(token *oauth2.Token) oauthmodel.TokenPair {
	return oauthmodel.TokenPair{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}
}

// tokenError keeps the OAuth error code reachable through errors.As(*oauthmodel.ErrorResponse)
func tokenError(grant oauthmodel.GrantType, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
		err = &oauthmodel.ErrorResponse{
			Code:        retrieveErr.ErrorCode,
			Description: retrieveErr.ErrorDescription,
		}
	}
	return fmt.Errorf("[auth TokenClient] %s grant: %w: %w", grant, errors.ErrTokenRequest, err)
}
