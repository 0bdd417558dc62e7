package config

import "time"

type SessionConfig interface {
	GetSessionTimeout() time.Duration
	GetSessionTTL() time.Duration
	GetSessionSecret() string
	GetRefreshLeeway() time.Duration
	GetTokenStorage() string
	GetTokenStoreSecret() string
	GetRedisURL() string
	GetRedisPrefix() string
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionTimeout is the inactivity period after which a session is logged out. Zero disables it.
func (Session) GetSessionTimeout() time.Duration {
	return GetEnvDuration("SESSION_TIMEOUT", 5*time.Minute)
}

// GetSessionTTL is how long unused session entries stay in storage.
// Defaults to twice the inactivity timeout, or a day when the timeout is disabled.
func (s Session) GetSessionTTL() time.Duration {
	fallback := 24 * time.Hour
	if timeout := s.GetSessionTimeout(); timeout > 0 {
		fallback = 2 * timeout
	}
	return GetEnvDuration("SESSION_TTL", fallback)
}

// GetSessionSecret signs session cookies and login form tokens. Empty means a random key per process.
func (Session) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", "")
}

// GetRefreshLeeway is how close to expiry an access token gets renewed
func (Session) GetRefreshLeeway() time.Duration {
	return GetEnvDuration("REFRESH_LEEWAY", 30*time.Second)
}

// GetTokenStorage selects the storage backend: memory, file or redis
func (Session) GetTokenStorage() string {
	return GetEnv("TOKEN_STORAGE", "memory")
}

func (Session) GetTokenStoreSecret() string {
	return GetEnv("TOKEN_STORE_SECRET", "")
}

func (Session) GetRedisURL() string {
	return GetEnv("REDIS_URL", "redis://localhost:6379/0")
}

func (Session) GetRedisPrefix() string {
	return GetEnv("REDIS_PREFIX", "fpa:session:")
}
