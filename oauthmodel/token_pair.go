package oauthmodel

import "time"

// TokenPair is the session credential pair returned by the token endpoint.
// Only the Token Store keeps it; everything else asks the store.
type TokenPair struct {
	// AccessToken is the bearer credential attached to API requests.
	// Example: "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."
	// Usage: "Authorization: Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// RefreshToken is the longer lived credential used by the refresh_token grant.
	// Its presence is what makes a session "logged in".
	RefreshToken string `json:"refresh_token"`

	// Expiry is computed from expires_in when the server sends it. Never persisted.
	Expiry time.Time `json:"-"`
}

// Empty reports whether neither token is set
func (p TokenPair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}
