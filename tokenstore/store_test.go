package tokenstore_test

import (
	"context"
	"testing"

	"github.com/LVRodrigues/fpa-management/tokenstore"
	"github.com/stretchr/testify/require"
)

func TestStore_TokenPair(t *testing.T) {
	ctx := context.Background()
	storage := tokenstore.NewMemoryStorage()
	store := tokenstore.New(storage, "sid-1")

	token, err := store.GetToken(ctx)
	require.NoError(t, err)
	require.Empty(t, token)

	require.NoError(t, store.SaveToken(ctx, "A"))
	require.NoError(t, store.SaveRefreshToken(ctx, "R"))

	token, err = store.GetToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "A", token)
	refresh, err := store.GetRefreshToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "R", refresh)

	value, err := storage.Get(ctx, "sid-1:access_token")
	require.NoError(t, err)
	require.Equal(t, "A", value)

	require.NoError(t, store.RemoveToken(ctx))
	token, err = store.GetToken(ctx)
	require.NoError(t, err)
	require.Empty(t, token)

	refresh, err = store.GetRefreshToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "R", refresh, "removing the access token leaves the refresh token")

	require.NoError(t, store.RemoveRefreshToken(ctx))
	require.Zero(t, storage.Len())
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	storage := tokenstore.NewMemoryStorage()
	alice := tokenstore.New(storage, "alice")
	bob := tokenstore.New(storage, "bob")

	require.NoError(t, alice.SaveToken(ctx, "alice-token"))

	token, err := bob.GetToken(ctx)
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestStore_SaveEmptyRemoves(t *testing.T) {
	ctx := context.Background()
	storage := tokenstore.NewMemoryStorage()
	store := tokenstore.New(storage, "")

	require.NoError(t, store.SaveRefreshToken(ctx, "R"))
	require.NoError(t, store.SaveRefreshToken(ctx, ""))
	require.Zero(t, storage.Len())
}

func TestKey(t *testing.T) {
	require.Equal(t, "refresh_token", tokenstore.Key("", "refresh_token"))
	require.Equal(t, "sid:refresh_token", tokenstore.Key("sid", "refresh_token"))
}
