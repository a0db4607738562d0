// Package config resolves Agent Docs' runtime configuration from the
// environment, with the same defaults the cobra flags fall back to when
// unset.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/agentdocs/agentdocs/pkg/log"
)

// Config holds everything needed to wire and start the service.
type Config struct {
	// DatabasePath is the directory holding the bbolt file
	// (agentdocs.db), per store.NewBoltStore's contract.
	DatabasePath string
	// Address is the interface the HTTP server binds to.
	Address string
	// Port is the HTTP listen port.
	Port int
	// StaticDir serves the bundled web client, if set.
	StaticDir string
	// WorkspaceRateLimit is the max number of workspace creations per IP
	// per hour.
	WorkspaceRateLimit int
	// DefaultLockTTL is the lease duration applied when a lock request
	// doesn't specify one.
	DefaultLockTTL time.Duration
	// LogLevel is one of debug/info/warn/error.
	LogLevel log.Level
	// LogJSON selects JSON log output over the console writer.
	LogJSON bool
}

// Defaults mirror the teacher's PersistentFlags defaults.
const (
	DefaultDatabasePath       = "./data"
	DefaultAddress            = "0.0.0.0"
	DefaultPort               = 8080
	DefaultWorkspaceRateLimit = 10
	DefaultLockTTLSeconds     = 60
	DefaultLogLevel           = log.InfoLevel
)

// FromEnv builds a Config from the process environment, applying defaults
// for anything unset or unparsable.
func FromEnv() Config {
	return Config{
		DatabasePath:       getEnv("DATABASE_PATH", DefaultDatabasePath),
		Address:            getEnv("ADDRESS", DefaultAddress),
		Port:               getEnvInt("PORT", DefaultPort),
		StaticDir:          os.Getenv("STATIC_DIR"),
		WorkspaceRateLimit: getEnvInt("WORKSPACE_RATE_LIMIT", DefaultWorkspaceRateLimit),
		DefaultLockTTL:     time.Duration(getEnvInt("DEFAULT_LOCK_TTL_SECONDS", DefaultLockTTLSeconds)) * time.Second,
		LogLevel:           log.Level(getEnv("LOG_LEVEL", string(DefaultLogLevel))),
		LogJSON:            getEnvBool("LOG_JSON", false),
	}
}

// ListenAddr formats Address and Port for http.Server.Addr.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
