package interceptor

import (
	"context"
	"net/http"
	"regexp"

	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/LVRodrigues/fpa-management/sessions"
)

const jsonContentType = "application/json"

// TokenSource supplies the current access token, "" when there is none
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) GetToken(ctx context.Context) (string, error) {
	return f(ctx)
}

// SessionTokens reads the access token of the session carried by the request context
var SessionTokens TokenSource = TokenSourceFunc(func(ctx context.Context) (string, error) {
	session, ok := sessions.FromContext(ctx)
	if !ok {
		return "", nil
	}
	return session.Tokens.GetToken(ctx)
})

// Transport decorates outgoing requests with the bearer token and JSON defaults.
// It never inspects responses, so a 401 is returned to the caller untouched.
type Transport struct {
	Tokens TokenSource
	// Base defaults to http.DefaultTransport
	Base http.RoundTripper
	// Match limits which URLs receive the bearer token. Nil matches every URL.
	Match *regexp.Regexp
}

var _ http.RoundTripper = (*Transport)(nil)

// New creates a Transport. An empty pattern matches every URL.
func New(tokens TokenSource, base http.RoundTripper, pattern string) (*Transport, error) {
	t := &Transport{Tokens: tokens, Base: base}
	if pattern != "" {
		match, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "[interceptor New] invalid bearer URL pattern %q", pattern)
		}
		t.Match = match
	}
	return t, nil
}

// RoundTrip sends a decorated copy of req; the caller's request is never mutated
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.token(req)
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, errors.Wrapf(err, "[interceptor RoundTrip] failed to read access token")
	}

	out := req.Clone(req.Context())
	if token != "" && out.Header.Get("Authorization") == "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if out.Header.Get("Content-Type") == "" {
		out.Header.Set("Content-Type", jsonContentType)
	}
	if out.Header.Get("Accept") == "" {
		out.Header.Set("Accept", jsonContentType)
	}
	return t.base().RoundTrip(out)
}

func (t *Transport) token(req *http.Request) (string, error) {
	if t.Tokens == nil || !t.matches(req) {
		return "", nil
	}
	return t.Tokens.GetToken(req.Context())
}

func (t *Transport) matches(req *http.Request) bool {
	if t.Match == nil {
		return true
	}
	return t.Match.MatchString(req.URL.String())
}

func (t *Transport) base() http.RoundTripper {
	if t.Base == nil {
		return http.DefaultTransport
	}
	return t.Base
}

// Client returns an http.Client sending every request through t
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}
