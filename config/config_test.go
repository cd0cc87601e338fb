package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("PROFILE", t.TempDir())
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "evdb", cfg.AppName)
	assert.False(t, cfg.KeepOldVersions)
	assert.Equal(t, time.Minute, cfg.ModelKeepWarm)
	assert.Equal(t, 1000, cfg.TagIndexSize)
	assert.Equal(t, 100*time.Millisecond, cfg.SlowTagScan)
	assert.Zero(t, cfg.PruneLimit)
}

func TestEnvFileUnderEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"# saved by evdb env\n"+
			"KEEP_OLD_VERSIONS=true\n"+
			"export TAG_INDEX_SIZE=50\n"+
			"\n"+
			"MODEL_KEEP_WARM=\"5s\"\n"), 0o600))
	t.Setenv("PROFILE", dir)
	t.Setenv("TAG_INDEX_SIZE", "20")
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Profile)
	assert.True(t, cfg.KeepOldVersions)
	assert.Equal(t, 20, cfg.TagIndexSize)
	assert.Equal(t, 5*time.Second, cfg.ModelKeepWarm)
}

func TestReadEnvRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nnonsense\n"), 0o600))
	_, err := ReadEnv(path)
	assert.Error(t, err)
}

func TestPrintEnvRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROFILE", dir)
	t.Setenv("PRUNE_LIMIT", "7")
	cfg, err := New()
	require.NoError(t, err)
	var buf bytes.Buffer
	PrintEnv(cfg, &buf)
	assert.Contains(t, buf.String(), "PRUNE_LIMIT=7\n")
	assert.Contains(t, buf.String(), "SLOW_TAG_SCAN=100ms\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), buf.Bytes(), 0o600))
	e, err := ReadEnv(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "7", e["PRUNE_LIMIT"])
	assert.Equal(t, dir, e["PROFILE"])
}
