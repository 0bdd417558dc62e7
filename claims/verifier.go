package claims

import (
	"context"
	"fmt"

	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/coreos/go-oidc/v3/oidc"
)

// Verifier checks the access token signature, issuer and expiry against the realm before
// reading its claims
type Verifier struct {
	verifier *oidc.IDTokenVerifier
	clientID string
}

var _ Extractor = (*Verifier)(nil)

// Keycloak access tokens carry the client in azp, aud is usually "account"
func verifierConfig(clientID string) *oidc.Config {
	return &oidc.Config{
		ClientID:          clientID,
		SkipClientIDCheck: true,
	}
}

// NewVerifier discovers the realm keys from issuer/.well-known/openid-configuration
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("[claims NewVerifier] failed to create OIDC provider: %w", err)
	}
	return &Verifier{
		verifier: provider.Verifier(verifierConfig(clientID)),
		clientID: clientID,
	}, nil
}

// NewVerifierWithKeySet verifies against a fixed key set instead of discovery
func NewVerifierWithKeySet(issuer, clientID string, keySet oidc.KeySet) *Verifier {
	return &Verifier{
		verifier: oidc.NewVerifier(issuer, keySet, verifierConfig(clientID)),
		clientID: clientID,
	}
}

func (v *Verifier) Extract(ctx context.Context, rawToken string) (*AccessClaims, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		var expired *oidc.TokenExpiredError
		if errors.As(err, &expired) {
			return nil, errors.Wrapf(errors.ErrTokenExpired, "[claims Verifier.Extract] token expired at %s", expired.Expiry)
		}
		return nil, errors.Wrapf(errors.Join(errors.ErrInvalidToken, err), "[claims Verifier.Extract] verification failed")
	}

	claims := &AccessClaims{}
	if err := token.Claims(claims); err != nil {
		return nil, errors.Wrapf(errors.Join(errors.ErrInvalidToken, err), "[claims Verifier.Extract] failed to read claims")
	}
	if v.clientID != "" && claims.AuthorizedParty != "" && claims.AuthorizedParty != v.clientID {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "[claims Verifier.Extract] token issued for %q", claims.AuthorizedParty)
	}
	return claims, nil
}

// NewExtractor returns a Verifier when verify is set, otherwise a Parser
func NewExtractor(ctx context.Context, verify bool, issuer, clientID string) (Extractor, error) {
	if !verify {
		return NewParser(), nil
	}
	return NewVerifier(ctx, issuer, clientID)
}
