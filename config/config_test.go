package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	withTempConfigHome(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, uint32(3), cfg.MaxRetries)
	assert.Equal(t, 2.0, cfg.BackoffBase)
	assert.Equal(t, "queuectl.db", cfg.DBPath)
	assert.Equal(t, 1.0, cfg.WorkerPollInterval)
	assert.Equal(t, 300, cfg.JobTimeout)
	assert.Equal(t, 60, cfg.WorkerHeartbeatTimeout)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	home := withTempConfigHome(t)

	cfg, err := Load()
	require.NoError(t, err)

	cfg.MaxRetries = 7
	cfg.DBPath = "/var/lib/queuectl/jobs.db"
	require.NoError(t, Save(cfg))

	path, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "queuectl", "config.json"), path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), reloaded.MaxRetries)
	assert.Equal(t, "/var/lib/queuectl/jobs.db", reloaded.DBPath)
}

func TestGetUnknownKey(t *testing.T) {
	withTempConfigHome(t)
	cfg, err := Load()
	require.NoError(t, err)

	_, err = cfg.Get("nonsense")
	assert.Error(t, err)
}

func TestSetValidatesValue(t *testing.T) {
	withTempConfigHome(t)
	cfg, err := Load()
	require.NoError(t, err)

	require.NoError(t, cfg.Set("max_retries", "5"))
	assert.Equal(t, uint32(5), cfg.MaxRetries)

	assert.Error(t, cfg.Set("max_retries", "not-a-number"))
	assert.Error(t, cfg.Set("unknown_key", "1"))
}
