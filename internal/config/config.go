// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Snapshot driver names accepted by RBAC_SNAPSHOT_DRIVER.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config holds the access-model engine configuration.
type Config struct {
	SnapshotDriver string // "file" (default) or "sqlite"
	SnapshotPath   string // snapshot file path (default rbac.json / rbac.db)
	SeedFile       string // optional YAML file overriding the built-in seed data
	LogLevel       string // log level: debug, info, warn, error (default "info")

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		SnapshotDriver: os.Getenv("RBAC_SNAPSHOT_DRIVER"),
		SnapshotPath:   os.Getenv("RBAC_SNAPSHOT_PATH"),
		SeedFile:       os.Getenv("RBAC_SEED_FILE"),
		LogLevel:       os.Getenv("RBAC_LOG_LEVEL"),
	}

	// Defaults
	if cfg.SnapshotDriver == "" {
		cfg.SnapshotDriver = DriverFile
	}
	cfg.SnapshotDriver = strings.ToLower(cfg.SnapshotDriver)
	switch cfg.SnapshotDriver {
	case DriverFile, DriverSQLite:
	default:
		return nil, fmt.Errorf("invalid RBAC_SNAPSHOT_DRIVER %q: must be %q or %q",
			cfg.SnapshotDriver, DriverFile, DriverSQLite)
	}
	if cfg.SnapshotPath == "" {
		if cfg.SnapshotDriver == DriverSQLite {
			cfg.SnapshotPath = "rbac.db"
		} else {
			cfg.SnapshotPath = "rbac.json"
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.SeedFile != "" {
		if _, err := os.Stat(cfg.SeedFile); err != nil {
			cfg.Warnings = append(cfg.Warnings,
				fmt.Sprintf("RBAC_SEED_FILE %s is not readable — falling back to built-in seed data", cfg.SeedFile))
			cfg.SeedFile = ""
		}
	}

	return cfg, nil
}

// Load reads the optional .env file and then the environment.
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	return LoadFromEnv()
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
