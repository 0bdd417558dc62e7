package tokenstore

import (
	"context"

	"github.com/LVRodrigues/fpa-management/internal/errors"
)

const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Store persists the session token pair. Getters return "" when a token is absent.
// There is no client side expiry: a stale token is only detected by the server rejecting it.
type Store struct {
	storage   Storage
	namespace string
}

// New creates a token store whose keys are scoped to namespace
func New(storage Storage, namespace string) *Store {
	return &Store{storage: storage, namespace: namespace}
}

// Key returns the storage key for name inside namespace
func Key(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + ":" + name
}

func (s *Store) Namespace() string {
	return s.namespace
}

func (s *Store) GetToken(ctx context.Context) (string, error) {
	return s.get(ctx, AccessTokenKey)
}

func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.save(ctx, AccessTokenKey, token)
}

func (s *Store) RemoveToken(ctx context.Context) error {
	return s.storage.Delete(ctx, Key(s.namespace, AccessTokenKey))
}

func (s *Store) GetRefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, RefreshTokenKey)
}

func (s *Store) SaveRefreshToken(ctx context.Context, token string) error {
	return s.save(ctx, RefreshTokenKey, token)
}

func (s *Store) RemoveRefreshToken(ctx context.Context) error {
	return s.storage.Delete(ctx, Key(s.namespace, RefreshTokenKey))
}

func (s *Store) get(ctx context.Context, name string) (string, error) {
	value, err := s.storage.Get(ctx, Key(s.namespace, name))
	if errors.Is(err, errors.ErrNotFound) {
		return "", nil
	}
	return value, err
}

// save treats an empty token as a removal so "" always reads back as absent
func (s *Store) save(ctx context.Context, name, token string) error {
	if token == "" {
		return s.storage.Delete(ctx, Key(s.namespace, name))
	}
	return s.storage.Set(ctx, Key(s.namespace, name), token)
}
