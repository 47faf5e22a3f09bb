package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GBGRAPH_ENV", "GBGRAPH_LOG_FILE", "GBGRAPH_LOG_LEVEL", "GBGRAPH_VERIFY_JOBS"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gbgraph.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
	assert.GreaterOrEqual(t, cfg.Verify.Jobs, 1)
	assert.Equal(t, ".gbgraph-state.json", cfg.Verify.StateFile)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
env = "production"

[log]
level = "debug"
file = "/var/log/gbgraph.log"
max_log_size = 10
max_log_age = 3

[verify]
jobs = 2
state_file = "verify.json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, LogConfig{Level: "debug", File: "/var/log/gbgraph.log", MaxSize: 10, MaxAge: 3}, cfg.Log)
	assert.Equal(t, VerifyConfig{Jobs: 2, StateFile: "verify.json"}, cfg.Verify)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[verify]\njobs = 2\n")
	t.Setenv("GBGRAPH_VERIFY_JOBS", "7")
	t.Setenv("GBGRAPH_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Verify.Jobs)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "env = \n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "env = \"staging\"\n"))
	assert.ErrorContains(t, err, "config validation failed")

	_, err = Load(writeConfig(t, "[verify]\njobs = 0\n"))
	assert.ErrorContains(t, err, "verify jobs")

	t.Setenv("GBGRAPH_LOG_LEVEL", "loud")
	_, err = Load("")
	assert.ErrorContains(t, err, "log level")
}
