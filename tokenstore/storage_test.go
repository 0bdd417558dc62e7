package tokenstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/LVRodrigues/fpa-management/tokenstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStorage(t *testing.T, opts ...tokenstore.RedisOption) (*tokenstore.RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return tokenstore.NewRedisStorage(client, opts...), mr
}

func storages(t *testing.T) map[string]tokenstore.Storage {
	t.Helper()

	plain, err := tokenstore.NewFileStorage(filepath.Join(t.TempDir(), "tokens.json"), "")
	require.NoError(t, err)
	sealed, err := tokenstore.NewFileStorage(filepath.Join(t.TempDir(), "tokens.bin"), "s3cret")
	require.NoError(t, err)
	rs, _ := newRedisStorage(t)

	return map[string]tokenstore.Storage{
		"memory":         tokenstore.NewMemoryStorage(),
		"file":           plain,
		"encrypted file": sealed,
		"redis":          rs,
	}
}

func TestStorage_Contract(t *testing.T) {
	ctx := context.Background()

	for name, storage := range storages(t) {
		t.Run(name, func(t *testing.T) {
			_, err := storage.Get(ctx, "missing")
			require.ErrorIs(t, err, errors.ErrNotFound)

			require.NoError(t, storage.Set(ctx, "a", "1"))
			require.NoError(t, storage.Set(ctx, "b", "2"))
			require.NoError(t, storage.Set(ctx, "a", "3"))

			value, err := storage.Get(ctx, "a")
			require.NoError(t, err)
			require.Equal(t, "3", value)

			require.NoError(t, storage.Delete(ctx, "a"))
			require.NoError(t, storage.Delete(ctx, "a"))
			_, err = storage.Get(ctx, "a")
			require.ErrorIs(t, err, errors.ErrNotFound)

			value, err = storage.Get(ctx, "b")
			require.NoError(t, err)
			require.Equal(t, "2", value)
		})
	}
}

func TestFileStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tokens.json")

	first, err := tokenstore.NewFileStorage(path, "")
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "default:refresh_token", "R"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := tokenstore.NewFileStorage(path, "")
	require.NoError(t, err)
	value, err := second.Get(ctx, "default:refresh_token")
	require.NoError(t, err)
	require.Equal(t, "R", value)
}

func TestFileStorage_Encrypted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.bin")

	sealed, err := tokenstore.NewFileStorage(path, "s3cret")
	require.NoError(t, err)
	require.NoError(t, sealed.Set(ctx, "access_token", "eyJhbGciOi"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "eyJhbGciOi")
	require.NotContains(t, string(raw), "access_token")

	t.Run("wrong secret", func(t *testing.T) {
		other, err := tokenstore.NewFileStorage(path, "guess")
		require.NoError(t, err)
		_, err = other.Get(ctx, "access_token")
		require.ErrorIs(t, err, errors.ErrStorage)
	})

	t.Run("read as plaintext", func(t *testing.T) {
		plain, err := tokenstore.NewFileStorage(path, "")
		require.NoError(t, err)
		_, err = plain.Get(ctx, "access_token")
		require.Error(t, err)
	})
}

func TestNewFileStorage_RequiresPath(t *testing.T) {
	_, err := tokenstore.NewFileStorage("", "")
	require.ErrorIs(t, err, errors.ErrStorage)
}

func TestRedisStorage_PrefixAndTTL(t *testing.T) {
	ctx := context.Background()
	rs, mr := newRedisStorage(t, tokenstore.WithKeyPrefix("test:"), tokenstore.WithTTL(time.Minute))

	require.NoError(t, rs.Set(ctx, "sid:access_token", "A"))
	require.True(t, mr.Exists("test:sid:access_token"))
	require.Equal(t, time.Minute, mr.TTL("test:sid:access_token"))

	mr.FastForward(40 * time.Second)
	value, err := rs.Get(ctx, "sid:access_token")
	require.NoError(t, err)
	require.Equal(t, "A", value)
	require.Equal(t, time.Minute, mr.TTL("test:sid:access_token"), "a read slides the expiry")

	mr.FastForward(2 * time.Minute)
	_, err = rs.Get(ctx, "sid:access_token")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestMemoryStorage_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 28, 8, 47, 33, 0, time.UTC)
	storage := tokenstore.NewMemoryStorage(
		tokenstore.WithMemoryTTL(time.Minute),
		tokenstore.WithMemoryClock(func() time.Time { return now }),
	)

	require.NoError(t, storage.Set(ctx, "a:access_token", "A"))
	require.NoError(t, storage.Set(ctx, "b:access_token", "B"))

	now = now.Add(40 * time.Second)
	value, err := storage.Get(ctx, "a:access_token")
	require.NoError(t, err)
	require.Equal(t, "A", value)

	now = now.Add(40 * time.Second)
	_, err = storage.Get(ctx, "b:access_token")
	require.ErrorIs(t, err, errors.ErrNotFound, "untouched entry expired")
	value, err = storage.Get(ctx, "a:access_token")
	require.NoError(t, err, "a read slides the expiry")
	require.Equal(t, "A", value)

	now = now.Add(2 * time.Minute)
	require.Zero(t, storage.Len())
}

func TestMemoryStorage_SetSweepsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 28, 8, 47, 33, 0, time.UTC)
	storage := tokenstore.NewMemoryStorage(
		tokenstore.WithMemoryTTL(time.Minute),
		tokenstore.WithMemoryClock(func() time.Time { return now }),
	)

	for _, key := range []string{"a:last_activity", "b:last_activity", "c:last_activity"} {
		require.NoError(t, storage.Set(ctx, key, "1"))
	}
	now = now.Add(2 * time.Minute)
	require.NoError(t, storage.Set(ctx, "d:last_activity", "1"))
	require.Equal(t, []string{"d:last_activity"}, storage.Keys())
}

func TestRedisStorage_ConnectionError(t *testing.T) {
	rs, mr := newRedisStorage(t)
	mr.Close()

	_, err := rs.Get(context.Background(), "key")
	require.ErrorIs(t, err, errors.ErrStorage)
	require.Error(t, rs.Set(context.Background(), "key", "value"))
}

func TestNewRedisStorageFromURL(t *testing.T) {
	_, err := tokenstore.NewRedisStorageFromURL("not-a-valid-url")
	require.Error(t, err)

	mr := miniredis.RunT(t)
	rs, err := tokenstore.NewRedisStorageFromURL("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	t.Cleanup(func() { rs.Close() })
	require.NoError(t, rs.Ping(context.Background()))

	mr.Close()
	require.ErrorIs(t, rs.Ping(context.Background()), errors.ErrStorage)
}
