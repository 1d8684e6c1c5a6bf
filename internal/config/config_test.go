package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.DefaultLimit)
	assert.Equal(t, 1, cfg.RecencyWindowYears)
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"default_limit": 25, "recency_window_years": 2}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.DefaultLimit)
	assert.Equal(t, 2, cfg.RecencyWindowYears)
}

func TestEnvOverridesTakePrecedence(t *testing.T) {
	t.Setenv("SOSUMI_ENCRYPTION_KEY", "envkey")
	t.Setenv("SOSUMI_BUNDLE_PATH", "/tmp/env-bundle.encrypted")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"encryption_key": "filekey", "bundle_path": "/tmp/file-bundle.encrypted"}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "envkey", cfg.EncryptionKey)
	assert.Equal(t, "/tmp/env-bundle.encrypted", cfg.BundlePath)
}

func TestValidateRejectsOutOfRangeLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLimit = 0
	assert.Error(t, cfg.Validate())

	cfg.DefaultLimit = 1001
	assert.Error(t, cfg.Validate())

	cfg.DefaultLimit = 10
	assert.NoError(t, cfg.Validate())
}

func TestSaveRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg := DefaultConfig()
	cfg.DefaultLimit = 42
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.DefaultLimit)
}
