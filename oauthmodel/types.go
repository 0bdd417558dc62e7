package oauthmodel

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines what credentials are sent alongside the client credentials.
type GrantType string

const (
	// PasswordGrant exchanges the resource owner's username and password for tokens.
	// Used in: the login form and `fpa login`
	// Token request includes: grant_type, client_id, client_secret, username, password
	// Returns: access_token, refresh_token
	PasswordGrant GrantType = "password"

	// RefreshTokenGrant exchanges a refresh token for a renewed token pair.
	// Used in: explicit refresh and the auto refresh before access token expiry
	// Token request includes: grant_type, client_id, client_secret, refresh_token
	// Returns: new access_token and, usually, a rotated refresh_token
	RefreshTokenGrant GrantType = "refresh_token"
)

func (g GrantType) String() string {
	return string(g)
}
