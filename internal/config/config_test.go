package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 900, cfg.ChunkSize)
	assert.Equal(t, 8, cfg.SearchLimit)
	assert.Equal(t, 5, cfg.FallbackLimit)
	assert.Equal(t, float64(50), cfg.RateLimitRPS)
	assert.Equal(t, 100, cfg.RateLimitBurst)
	assert.Equal(t, int64(32), cfg.MaxUploadMB)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
addr = ":9090"
chunk_size = 500
search_limit = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 3, cfg.SearchLimit)
	// Settings the file omits keep their defaults.
	assert.Equal(t, 5, cfg.FallbackLimit)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("addr = [broken"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ANALYST_ADDR", ":7070")
	t.Setenv("ANALYST_DATA_DIR", "/tmp/analyst-data")
	t.Setenv("ANALYST_CHUNK_SIZE", "250")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "/tmp/analyst-data", cfg.DataDir)
	assert.Equal(t, 250, cfg.ChunkSize)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`addr = ":9090"`), 0600))
	t.Setenv("ANALYST_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
}

func TestLoad_InvalidEnvChunkSizeIgnored(t *testing.T) {
	t.Setenv("ANALYST_CHUNK_SIZE", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 900, cfg.ChunkSize)
}
