// Package config provides environment helpers for the evergreen programs.
// Every setting can be given as a flag; the environment supplies the flag
// defaults.
package config

import (
	"os"
	"strconv"
)

// Default program settings.
const (
	DefaultListenAddr = ":8765"
	DefaultLogLevel   = "info"
	DefaultAppName    = "evergreen"
)

// String returns the value of the environment variable key, or def when it
// is unset or empty.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Bool returns the boolean value of key, or def when it is unset or not a
// valid boolean.
func Bool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// ListenAddr returns the landmark websocket address from EVERGREEN_LISTEN.
func ListenAddr() string {
	return String("EVERGREEN_LISTEN", DefaultListenAddr)
}

// LogLevel returns the log level from LOG_LEVEL.
func LogLevel() string {
	return String("LOG_LEVEL", DefaultLogLevel)
}

// AppName returns the persistence namespace from EVERGREEN_APP.
func AppName() string {
	return String("EVERGREEN_APP", DefaultAppName)
}
