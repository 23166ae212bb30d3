package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esqproject/esq/config"
)

func Test_LoadFrom_MissingFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := config.LoadFrom(path)

	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func Test_SaveTo_And_LoadFrom_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".esq", "config.toml")

	saved := &config.Config{
		Default: config.Endpoint{
			URL:      "http://localhost:9200",
			Username: "elastic",
			Password: "secret",
		},
	}
	require.NoError(t, saved.SaveTo(path))

	loaded, loadErr := config.LoadFrom(path)

	require.NoError(t, loadErr)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.Default, loaded.Default)
	assert.True(t, loaded.HasCredentials())
}

func Test_SaveTo_RestrictsPermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".esq")
	path := filepath.Join(dir, "config.toml")

	cfg := &config.Config{Default: config.Endpoint{URL: "http://localhost:9200", Password: "secret"}}
	require.NoError(t, cfg.SaveTo(path))

	dirInfo, dirErr := os.Stat(dir)
	require.NoError(t, dirErr)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	fileInfo, fileErr := os.Stat(path)
	require.NoError(t, fileErr)
	assert.Equal(t, os.FileMode(0o600), fileInfo.Mode().Perm())
}

func Test_ClearingThePasswordKeepsTheRestOfTheConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := &config.Config{
		Default: config.Endpoint{URL: "http://localhost:9200", Username: "elastic", Password: "secret"},
	}
	require.NoError(t, cfg.SaveTo(path))

	cfg.Default.Password = ""
	require.NoError(t, cfg.SaveTo(path))

	loaded, loadErr := config.LoadFrom(path)

	require.NoError(t, loadErr)
	require.NotNil(t, loaded)
	assert.Equal(t, "http://localhost:9200", loaded.Default.URL)
	assert.Equal(t, "elastic", loaded.Default.Username)
	assert.Empty(t, loaded.Default.Password)
	assert.False(t, loaded.HasCredentials())
}
