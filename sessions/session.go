package sessions

import (
	"context"
	"strconv"
	"time"

	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/LVRodrigues/fpa-management/tokenstore"
)

const (
	redirectURLKey  = "redirect_url"
	lastActivityKey = "last_activity"
)

// sessionKeys lists every entry a session can own
var sessionKeys = []string{redirectURLKey, lastActivityKey, tokenstore.AccessTokenKey, tokenstore.RefreshTokenKey}

// Context is the explicitly scoped session shared by the auth service, the guards and the
// interceptor. Every key it writes is namespaced with the session ID.
// Only the auth service writes to Tokens.
type Context struct {
	ID     string
	Tokens *tokenstore.Store

	storage tokenstore.Storage
}

// New creates the session scope id inside storage
func New(storage tokenstore.Storage, id string) *Context {
	return &Context{
		ID:      id,
		Tokens:  tokenstore.New(storage, id),
		storage: storage,
	}
}

// RedirectURL returns the URL a guard blocked, or "" when none is pending
func (c *Context) RedirectURL(ctx context.Context) (string, error) {
	value, err := c.storage.Get(ctx, tokenstore.Key(c.ID, redirectURLKey))
	if errors.Is(err, errors.ErrNotFound) {
		return "", nil
	}
	return value, err
}

// SetRedirectURL remembers url, replacing any previous value
func (c *Context) SetRedirectURL(ctx context.Context, url string) error {
	if url == "" {
		return c.storage.Delete(ctx, tokenstore.Key(c.ID, redirectURLKey))
	}
	return c.storage.Set(ctx, tokenstore.Key(c.ID, redirectURLKey), url)
}

// ConsumeRedirectURL returns the pending URL and clears it
func (c *Context) ConsumeRedirectURL(ctx context.Context) (string, error) {
	url, err := c.RedirectURL(ctx)
	if err != nil || url == "" {
		return "", err
	}
	if err := c.storage.Delete(ctx, tokenstore.Key(c.ID, redirectURLKey)); err != nil {
		return "", err
	}
	return url, nil
}

// Touch records user activity at now
func (c *Context) Touch(ctx context.Context, now time.Time) error {
	return c.storage.Set(ctx, tokenstore.Key(c.ID, lastActivityKey), strconv.FormatInt(now.UnixMilli(), 10))
}

// LastActivity returns the last Touch time, zero when the session never recorded activity
func (c *Context) LastActivity(ctx context.Context) (time.Time, error) {
	value, err := c.storage.Get(ctx, tokenstore.Key(c.ID, lastActivityKey))
	if errors.Is(err, errors.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrInvalidSession, "[sessions LastActivity] malformed timestamp %q", value)
	}
	return time.UnixMilli(ms), nil
}

// Idle reports whether the session has been inactive longer than timeout at now.
// A zero timeout or a session without recorded activity is never idle.
func (c *Context) Idle(ctx context.Context, now time.Time, timeout time.Duration) (bool, error) {
	if timeout <= 0 {
		return false, nil
	}
	last, err := c.LastActivity(ctx)
	if err != nil || last.IsZero() {
		return false, err
	}
	return now.Sub(last) > timeout, nil
}

// HoldsState reports whether the session stores a redirect target or tokens
func (c *Context) HoldsState(ctx context.Context) (bool, error) {
	for _, name := range []string{redirectURLKey, tokenstore.AccessTokenKey, tokenstore.RefreshTokenKey} {
		_, err := c.storage.Get(ctx, tokenstore.Key(c.ID, name))
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, errors.ErrNotFound) {
			return false, err
		}
	}
	return false, nil
}

// Rotate moves everything stored for the session to id and removes the old keys.
// The returned scope replaces c, which is left empty.
func (c *Context) Rotate(ctx context.Context, id string) (*Context, error) {
	if id == "" || id == c.ID {
		return nil, errors.Wrapf(errors.ErrInvalidSession, "[sessions Rotate] a new session id is required")
	}
	for _, name := range sessionKeys {
		value, err := c.storage.Get(ctx, tokenstore.Key(c.ID, name))
		if errors.Is(err, errors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := c.storage.Set(ctx, tokenstore.Key(id, name), value); err != nil {
			return nil, err
		}
		if err := c.storage.Delete(ctx, tokenstore.Key(c.ID, name)); err != nil {
			return nil, err
		}
	}
	return New(c.storage, id), nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying session
func NewContext(ctx context.Context, session *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}

// FromContext returns the session stored by NewContext
func FromContext(ctx context.Context) (*Context, bool) {
	session, ok := ctx.Value(contextKey{}).(*Context)
	return session, ok && session != nil
}
