package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("RBAC_SNAPSHOT_DRIVER", "")
	t.Setenv("RBAC_SNAPSHOT_PATH", "")
	t.Setenv("RBAC_SEED_FILE", "")
	t.Setenv("RBAC_LOG_LEVEL", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverFile, cfg.SnapshotDriver)
	assert.Equal(t, "rbac.json", cfg.SnapshotPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.SeedFile)
}

func TestLoadFromEnv_SQLiteDriverDefaultPath(t *testing.T) {
	t.Setenv("RBAC_SNAPSHOT_DRIVER", "sqlite")
	t.Setenv("RBAC_SNAPSHOT_PATH", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.SnapshotDriver)
	assert.Equal(t, "rbac.db", cfg.SnapshotPath)
}

func TestLoadFromEnv_ExplicitValues(t *testing.T) {
	t.Setenv("RBAC_SNAPSHOT_DRIVER", "SQLite")
	t.Setenv("RBAC_SNAPSHOT_PATH", "/tmp/model.db")
	t.Setenv("RBAC_LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.SnapshotDriver, "driver name is case-insensitive")
	assert.Equal(t, "/tmp/model.db", cfg.SnapshotPath)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadFromEnv_InvalidDriver(t *testing.T) {
	t.Setenv("RBAC_SNAPSHOT_DRIVER", "postgres")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RBAC_SNAPSHOT_DRIVER")
}

func TestLoadFromEnv_MissingSeedFileWarns(t *testing.T) {
	t.Setenv("RBAC_SNAPSHOT_DRIVER", "")
	t.Setenv("RBAC_SEED_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Empty(t, cfg.SeedFile)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "RBAC_SEED_FILE")
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			assert.Equal(t, tt.expected, cfg.SlogLevel())
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "# comment\nRBAC_TEST_ALPHA=one\nRBAC_TEST_BETA=\"two\"\n\nnot a pair\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	t.Setenv("RBAC_TEST_ALPHA", "")
	t.Setenv("RBAC_TEST_BETA", "")
	require.NoError(t, LoadDotEnv(envFile))

	assert.Equal(t, "one", os.Getenv("RBAC_TEST_ALPHA"))
	assert.Equal(t, "two", os.Getenv("RBAC_TEST_BETA"), "quotes are stripped")
}

func TestLoadDotEnv_EnvTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("RBAC_TEST_GAMMA=file\n"), 0o644))

	t.Setenv("RBAC_TEST_GAMMA", "env")
	require.NoError(t, LoadDotEnv(envFile))
	assert.Equal(t, "env", os.Getenv("RBAC_TEST_GAMMA"))
}

func TestLoadDotEnv_MissingFileIsFine(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
