package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDriver   = "TODO_DB_DRIVER"
	EnvDSN      = "TODO_DB_DSN"
	EnvBackend  = "TODO_STORE_BACKEND"
	EnvLogLevel = "TODO_LOG_LEVEL"

	DefaultEnvFile = ".env"
	DefaultDriver  = "sqlite3"
	DefaultDSN     = "todo.db"
)

const (
	BackendSQL  = "sql"
	BackendGorm = "gorm"
)

type Config struct {
	Driver   string
	DSN      string
	Backend  string
	LogLevel slog.Level
}

// LoadEnvFile loads variables from path into the process environment
// without overriding ones that are already set. A missing file is only an
// error when required is true.
func LoadEnvFile(path string, required bool) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Overlay returns a lookup that prefers non-empty values from overrides
// (typically command line flags) and falls back to getenv.
func Overlay(overrides map[string]string, getenv func(string) string) func(string) string {
	return func(key string) string {
		if v := overrides[key]; v != "" {
			return v
		}
		return getenv(key)
	}
}

// Load builds the configuration from getenv, usually os.Getenv.
func Load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Driver:  valueOr(getenv(EnvDriver), DefaultDriver),
		DSN:     getenv(EnvDSN),
		Backend: strings.ToLower(valueOr(getenv(EnvBackend), BackendSQL)),
	}

	if cfg.Backend != BackendSQL && cfg.Backend != BackendGorm {
		return nil, fmt.Errorf("%s must be %q or %q, got %q", EnvBackend, BackendSQL, BackendGorm, cfg.Backend)
	}

	level := valueOr(getenv(EnvLogLevel), "warn")
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}

	if cfg.DSN != "" {
		return cfg, nil
	}
	switch cfg.Driver {
	case "sqlite3", "sqlite":
		cfg.DSN = DefaultDSN
	case "postgres", "pgx":
		dsn, err := postgresDSN(getenv)
		if err != nil {
			return nil, err
		}
		cfg.DSN = dsn
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	return cfg, nil
}

func postgresDSN(getenv func(string) string) (string, error) {
	requiredEnvVars := []string{
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"POSTGRES_HOST", "POSTGRES_PORT",
	}
	for _, env := range requiredEnvVars {
		if getenv(env) == "" {
			return "", fmt.Errorf("environment variable %s must be set (or set %s)", env, EnvDSN)
		}
	}

	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getenv("POSTGRES_HOST"), getenv("POSTGRES_USER"), getenv("POSTGRES_PASSWORD"),
		getenv("POSTGRES_DB"), getenv("POSTGRES_PORT")), nil
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}
