package tokenstore

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/LVRodrigues/fpa-management/internal/errors"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"

	// FileName is the token file inside the data folder
	FileName = "tokens.json"
)

// BackendConfig selects and configures a Storage backend
type BackendConfig interface {
	GetTokenStorage() string
	GetTokenStoreSecret() string
	GetRedisURL() string
	GetRedisPrefix() string
	GetDataFolder() string
	GetSessionTTL() time.Duration
}

// Open creates the Storage named by cfg.GetTokenStorage(). Memory and redis entries
// expire cfg.GetSessionTTL() after their last use; the file backend keeps them.
func Open(cfg BackendConfig) (Storage, error) {
	switch backend := strings.ToLower(cfg.GetTokenStorage()); backend {
	case BackendMemory, "":
		return NewMemoryStorage(WithMemoryTTL(cfg.GetSessionTTL())), nil
	case BackendFile:
		return NewFileStorage(filepath.Join(cfg.GetDataFolder(), FileName), cfg.GetTokenStoreSecret())
	case BackendRedis:
		return NewRedisStorageFromURL(cfg.GetRedisURL(), WithKeyPrefix(cfg.GetRedisPrefix()), WithTTL(cfg.GetSessionTTL()))
	default:
		return nil, errors.Wrapf(errors.ErrStorage, "[tokenstore Open] unknown backend %q", backend)
	}
}
