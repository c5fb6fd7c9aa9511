package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg := LoadFromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 6969, cfg.Server.Port)
	assert.Equal(t, 16, cfg.HNSW.M)
	assert.Equal(t, 1.2, cfg.BM25.K1)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("HELIX_PORT", "7000")
	t.Setenv("HELIX_HNSW_EF_SEARCH", "50")
	t.Setenv("HELIX_WORKERS", "4")

	cfg := LoadFromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 50, cfg.HNSW.EfSearch)
	assert.Equal(t, 4, cfg.Worker.Count)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := LoadFromEnv()
	cfg.Server.Port = 0
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadBM25B(t *testing.T) {
	cfg := LoadFromEnv()
	cfg.BM25.B = 1.5
	require.Error(t, cfg.Validate())
}

func TestStringOmitsSecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-super-secret")
	cfg := LoadFromEnv()
	assert.NotContains(t, cfg.String(), "sk-super-secret")
}

func TestLoadFromFileOverlaysPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helix.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hnsw:\n  ef_search: 250\nbm25:\n  k1: 1.5\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 250, cfg.HNSW.EfSearch)
	assert.Equal(t, 1.5, cfg.BM25.K1)
	// Fields the file didn't mention keep LoadFromEnv's defaults.
	assert.Equal(t, 6969, cfg.Server.Port)
	assert.Equal(t, 16, cfg.HNSW.M)
}

func TestLoadFromFileMissingFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}
