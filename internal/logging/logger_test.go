package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetState closes any sink left over from a previous test so each test
// exercises Initialize from a clean slate.
func resetState(t *testing.T) {
	t.Helper()
	CloseAll()
	t.Cleanup(CloseAll)
}

func sinkPath(home string) string {
	return filepath.Join(home, ".sosumi", "logs", logFileName)
}

func TestDisabledByDefaultWritesNothing(t *testing.T) {
	resetState(t)
	t.Setenv("SOSUMI_DEBUG", "")
	home := t.TempDir()

	require.NoError(t, Initialize(home))
	require.False(t, IsDebugMode())

	Get(CategorySearch).Info("should be dropped")

	_, err := os.Stat(filepath.Join(home, ".sosumi", "logs"))
	assert.True(t, os.IsNotExist(err), "no logs directory may be created while tracing is off")
}

func TestEnvVarEnablesTracing(t *testing.T) {
	resetState(t)
	t.Setenv("SOSUMI_DEBUG", "1")
	home := t.TempDir()

	require.NoError(t, Initialize(home))
	require.True(t, IsDebugMode())

	Get(CategorySearch).Info("hello %d", 7)
	CloseAll()

	data, err := os.ReadFile(sinkPath(home))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello 7")
	assert.Contains(t, string(data), "search")
}

func TestSinkRotatesAtOpen(t *testing.T) {
	resetState(t)
	t.Setenv("SOSUMI_DEBUG", "1")
	home := t.TempDir()

	old := maxSinkSize
	maxSinkSize = 16
	t.Cleanup(func() { maxSinkSize = old })

	path := sinkPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	previous := []byte("previous generation, well past the threshold\n")
	require.NoError(t, os.WriteFile(path, previous, 0644))

	require.NoError(t, Initialize(home))
	CloseAll()

	rotated, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, previous, rotated)

	fresh, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(fresh), "previous generation")
}

func TestDisabledCategoryIsFiltered(t *testing.T) {
	resetState(t)
	t.Setenv("SOSUMI_DEBUG", "")
	home := t.TempDir()

	cfgPath := filepath.Join(home, ".sosumi", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), 0755))
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"logging": {"debug_mode": true, "level": "debug", "categories": {"store": false}}}`), 0644))

	require.NoError(t, Initialize(home))
	Get(CategoryStore).Info("store line")
	Get(CategorySearch).Info("search line")
	CloseAll()

	data, err := os.ReadFile(sinkPath(home))
	require.NoError(t, err)
	assert.Contains(t, string(data), "search line")
	assert.NotContains(t, string(data), "store line")
}

func TestReloadOpensSinkWhenNewlyEnabled(t *testing.T) {
	resetState(t)
	t.Setenv("SOSUMI_DEBUG", "")
	home := t.TempDir()

	require.NoError(t, Initialize(home))
	require.False(t, IsDebugMode())

	cfgPath := filepath.Join(home, ".sosumi", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), 0755))
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"logging": {"debug_mode": true}}`), 0644))

	require.NoError(t, ReloadConfig())
	require.True(t, IsDebugMode())

	Get(CategoryFacade).Info("after reload")
	CloseAll()

	data, err := os.ReadFile(sinkPath(home))
	require.NoError(t, err)
	assert.Contains(t, string(data), "after reload")
}
