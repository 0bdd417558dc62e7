package tokenstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/LVRodrigues/fpa-management/internal/errors"
)

type memoryItem struct {
	value     string
	expiresAt time.Time // zero when the storage has no TTL
}

// MemoryStorage is an in-memory implementation of Storage. Contents are lost on restart.
type MemoryStorage struct {
	mu        sync.Mutex
	items     map[string]memoryItem
	ttl       time.Duration
	nowTime   func() time.Time
	nextSweep time.Time
}

var _ Storage = (*MemoryStorage)(nil)

type MemoryOption func(*MemoryStorage)

// WithMemoryTTL expires entries ttl after their last read or write. Zero keeps them until deleted.
func WithMemoryTTL(ttl time.Duration) MemoryOption {
	return func(m *MemoryStorage) {
		m.ttl = ttl
	}
}

func WithMemoryClock(f func() time.Time) MemoryOption {
	return func(m *MemoryStorage) {
		m.nowTime = f
	}
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage(opts ...MemoryOption) *MemoryStorage {
	m := &MemoryStorage{
		items:   make(map[string]memoryItem),
		nowTime: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.Wrapf(errors.ErrStorage, "[tokenstore MemoryStorage.Get] key is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowTime()
	item, ok := m.items[key]
	if !ok {
		return "", errors.ErrNotFound
	}
	if m.expired(item, now) {
		delete(m.items, key)
		return "", errors.ErrNotFound
	}
	item.expiresAt = m.expiry(now)
	m.items[key] = item
	return item.value, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	if key == "" {
		return errors.Wrapf(errors.ErrStorage, "[tokenstore MemoryStorage.Set] key is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowTime()
	if m.ttl > 0 && !now.Before(m.nextSweep) {
		m.sweep(now)
		m.nextSweep = now.Add(m.ttl)
	}
	m.items[key] = memoryItem{value: value, expiresAt: m.expiry(now)}
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Len returns the number of live entries
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep(m.nowTime())
	return len(m.items)
}

// Keys returns the live keys, sorted
func (m *MemoryStorage) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep(m.nowTime())
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *MemoryStorage) expiry(now time.Time) time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(m.ttl)
}

func (m *MemoryStorage) expired(item memoryItem, now time.Time) bool {
	return !item.expiresAt.IsZero() && !now.Before(item.expiresAt)
}

// sweep drops expired entries. Callers hold mu.
func (m *MemoryStorage) sweep(now time.Time) {
	for key, item := range m.items {
		if m.expired(item, now) {
			delete(m.items, key)
		}
	}
}
