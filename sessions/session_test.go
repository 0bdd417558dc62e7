package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/LVRodrigues/fpa-management/sessions"
	"github.com/LVRodrigues/fpa-management/tokenstore"
	"github.com/stretchr/testify/require"
)

func TestRedirectURL_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	session := sessions.New(tokenstore.NewMemoryStorage(), "sid")

	url, err := session.ConsumeRedirectURL(ctx)
	require.NoError(t, err)
	require.Empty(t, url)

	require.NoError(t, session.SetRedirectURL(ctx, "/home"))
	require.NoError(t, session.SetRedirectURL(ctx, "/admin?tab=users"))

	url, err = session.RedirectURL(ctx)
	require.NoError(t, err)
	require.Equal(t, "/admin?tab=users", url)

	url, err = session.ConsumeRedirectURL(ctx)
	require.NoError(t, err)
	require.Equal(t, "/admin?tab=users", url)

	url, err = session.ConsumeRedirectURL(ctx)
	require.NoError(t, err)
	require.Empty(t, url, "a consumed target is gone")
}

func TestIdle(t *testing.T) {
	ctx := context.Background()
	session := sessions.New(tokenstore.NewMemoryStorage(), "sid")
	start := time.Date(2025, 1, 28, 8, 47, 33, 0, time.UTC)

	idle, err := session.Idle(ctx, start, time.Minute)
	require.NoError(t, err)
	require.False(t, idle, "no activity recorded yet")

	require.NoError(t, session.Touch(ctx, start))
	last, err := session.LastActivity(ctx)
	require.NoError(t, err)
	require.True(t, last.Equal(start))

	idle, err = session.Idle(ctx, start.Add(30*time.Second), time.Minute)
	require.NoError(t, err)
	require.False(t, idle)

	idle, err = session.Idle(ctx, start.Add(2*time.Minute), time.Minute)
	require.NoError(t, err)
	require.True(t, idle)

	idle, err = session.Idle(ctx, start.Add(time.Hour), 0)
	require.NoError(t, err)
	require.False(t, idle, "zero timeout disables the check")
}

func TestLastActivity_Malformed(t *testing.T) {
	ctx := context.Background()
	storage := tokenstore.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, "sid:last_activity", "yesterday"))

	_, err := sessions.New(storage, "sid").LastActivity(ctx)
	require.ErrorIs(t, err, errors.ErrInvalidSession)
}

func TestFromContext(t *testing.T) {
	_, ok := sessions.FromContext(context.Background())
	require.False(t, ok)

	session := sessions.New(tokenstore.NewMemoryStorage(), "sid")
	got, ok := sessions.FromContext(sessions.NewContext(context.Background(), session))
	require.True(t, ok)
	require.Same(t, session, got)
}

func TestHoldsState(t *testing.T) {
	ctx := context.Background()
	session := sessions.New(tokenstore.NewMemoryStorage(), "sid")

	require.NoError(t, session.Touch(ctx, time.Now()))
	held, err := session.HoldsState(ctx)
	require.NoError(t, err)
	require.False(t, held, "activity alone is not state")

	require.NoError(t, session.SetRedirectURL(ctx, "/admin"))
	held, err = session.HoldsState(ctx)
	require.NoError(t, err)
	require.True(t, held)

	other := sessions.New(tokenstore.NewMemoryStorage(), "sid")
	require.NoError(t, other.Tokens.SaveRefreshToken(ctx, "R"))
	held, err = other.HoldsState(ctx)
	require.NoError(t, err)
	require.True(t, held)
}

func TestRotate(t *testing.T) {
	ctx := context.Background()
	storage := tokenstore.NewMemoryStorage()
	session := sessions.New(storage, "old")
	start := time.Date(2025, 1, 28, 8, 47, 33, 0, time.UTC)

	require.NoError(t, session.Tokens.SaveToken(ctx, "A"))
	require.NoError(t, session.Tokens.SaveRefreshToken(ctx, "R"))
	require.NoError(t, session.SetRedirectURL(ctx, "/admin"))
	require.NoError(t, session.Touch(ctx, start))

	rotated, err := session.Rotate(ctx, "new")
	require.NoError(t, err)
	require.Equal(t, "new", rotated.ID)
	require.Equal(t, []string{"new:access_token", "new:last_activity", "new:redirect_url", "new:refresh_token"}, storage.Keys())

	token, err := rotated.Tokens.GetToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "A", token)
	last, err := rotated.LastActivity(ctx)
	require.NoError(t, err)
	require.True(t, last.Equal(start))

	held, err := session.HoldsState(ctx)
	require.NoError(t, err)
	require.False(t, held, "the old id owns nothing")

	_, err = rotated.Rotate(ctx, "new")
	require.ErrorIs(t, err, errors.ErrInvalidSession)
}
