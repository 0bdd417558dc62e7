package tokenstore

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/LVRodrigues/fpa-management/internal/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const hkdfInfo = "fpa-management token store"

// FileStorage keeps entries in a single JSON document on disk so tokens survive restarts.
// When created with a secret the document is sealed with XChaCha20-Poly1305.
type FileStorage struct {
	mu   sync.Mutex
	path string
	aead cipher.AEAD
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage creates a file backed storage at path. An empty secret stores plaintext JSON.
func NewFileStorage(path, secret string) (*FileStorage, error) {
	if path == "" {
		return nil, errors.Wrapf(errors.ErrStorage, "[tokenstore NewFileStorage] path is required")
	}

	f := &FileStorage{path: path}
	if secret == "" {
		return f, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("[tokenstore NewFileStorage] failed to derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("[tokenstore NewFileStorage] failed to create cipher: %w", err)
	}
	f.aead = aead
	return f, nil
}

// Path returns the location of the backing file
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.load()
	if err != nil {
		return "", err
	}
	value, ok := items[key]
	if !ok {
		return "", errors.ErrNotFound
	}
	return value, nil
}

func (f *FileStorage) Set(_ context.Context, key, value string) error {
	if key == "" {
		return errors.Wrapf(errors.ErrStorage, "[tokenstore FileStorage.Set] key is required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.load()
	if err != nil {
		return err
	}
	items[key] = value
	return f.save(items)
}

func (f *FileStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return f.save(items)
}

func (f *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("[tokenstore FileStorage] failed to read %s: %w", f.path, err)
	}

	if f.aead != nil {
		if len(data) < f.aead.NonceSize() {
			return nil, errors.Wrapf(errors.ErrStorage, "[tokenstore FileStorage] %s is not an encrypted token store", f.path)
		}
		nonce, sealed := data[:f.aead.NonceSize()], data[f.aead.NonceSize():]
		if data, err = f.aead.Open(nil, nonce, sealed, nil); err != nil {
			return nil, errors.Wrapf(errors.ErrStorage, "[tokenstore FileStorage] failed to decrypt %s", f.path)
		}
	}

	items := make(map[string]string)
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("[tokenstore FileStorage] %s is corrupt: %w", f.path, err)
	}
	return items, nil
}

// save writes to a temp file in the same directory and renames it over the target
func (f *FileStorage) save(items map[string]string) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("[tokenstore FileStorage] failed to marshal: %w", err)
	}

	if f.aead != nil {
		nonce := make([]byte, f.aead.NonceSize(), f.aead.NonceSize()+len(data)+f.aead.Overhead())
		if _, err := rand.Read(nonce); err != nil {
			return fmt.Errorf("[tokenstore FileStorage] failed to generate nonce: %w", err)
		}
		data = f.aead.Seal(nonce, nonce, data, nil)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("[tokenstore FileStorage] failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("[tokenstore FileStorage] failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("[tokenstore FileStorage] failed to write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[tokenstore FileStorage] failed to close: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("[tokenstore FileStorage] failed to replace %s: %w", f.path, err)
	}
	return nil
}
