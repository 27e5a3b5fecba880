package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
pool:
  size: 8
load:
  jobs: 10
  job_duration: 15ms
  rate: "50-S"
shutdown_timeout: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Pool.Size)
	assert.Equal(t, 10, cfg.Load.Jobs)
	assert.Equal(t, 15*time.Millisecond, cfg.Load.JobDuration)
	assert.Equal(t, "50-S", cfg.Load.Rate)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	// untouched keys keep their defaults
	assert.Equal(t, ":6060", cfg.Admin.Address)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "pool:\n  size: 2\n")
	t.Setenv("POOL_SIZE", "12")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ADMIN_ADDRESS", "127.0.0.1:7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Pool.Size)
	assert.Equal(t, "127.0.0.1:7070", cfg.Admin.Address)
	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_WithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Pool.Size, cfg.Pool.Size)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantMsg string
	}{
		{
			name:    "MissingFile",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") },
			wantMsg: "read yaml",
		},
		{
			name:    "BrokenYAML",
			path:    func(t *testing.T) string { return writeConfig(t, "pool: [size") },
			wantMsg: "parse yaml",
		},
		{
			name:    "ZeroPoolSize",
			path:    func(t *testing.T) string { return writeConfig(t, "pool:\n  size: 0\n") },
			wantMsg: "pool.size must be greater than zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Pool.Size = -1
	cfg.Log.Level = "loud"
	cfg.Load.Jobs = -3
	cfg.Load.PanicEvery = -1
	cfg.Load.Rate = "fast"
	cfg.ShutdownTimeout = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 6)
}

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Default().Validate())
}
