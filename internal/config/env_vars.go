package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	versionVar     = "APP_VERSION"
	releaseVar     = "APP_RELEASE"
	folderEnvVar   = "FOLDER"
	apiURLVar      = "API_URL"
	logLevelEnvVar = "LOG_LEVEL"
)

// Version is stamped at build time with -ldflags "-X .../internal/config.Version=..."
var Version = "0.0.1"

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "4200")
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "FPA Management")
}

// GetVersion returns the application version shown in the footer. DEV builds get a -dev suffix.
func (e EnvVars) GetVersion() string {
	version := GetEnv(versionVar, Version)
	if e.GetEnv() == "DEV" {
		return version + "-dev"
	}
	return version
}

func (EnvVars) GetRelease() string {
	return GetEnv(releaseVar, "")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

// GetAPIBaseURL is the upstream API that /api/ requests are proxied to
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiURLVar, "http://localhost:5000")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvBool parses a boolean variable, falling back to the default on empty or malformed values
func GetEnvBool(envVar string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetEnvDuration accepts Go durations ("5m") or plain milliseconds ("300000")
func GetEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
