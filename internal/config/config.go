package config

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
	KeycloakConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetVersion() string
	GetRelease() string
	GetDataFolder() string
	GetAPIBaseURL() string
	GetLogLevel() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
	Keycloak
	Session
}

func New() Config {
	return mainConfig{}
}
