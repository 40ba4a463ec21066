package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Text)
	assert.Nil(t, cfg.Log.Level)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
text = "zh"
sound = false
seed = 7

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Text)
	assert.Equal(t, "zh", *cfg.Practice.Text)
	require.NotNil(t, cfg.Practice.Sound)
	assert.False(t, *cfg.Practice.Sound)
	require.NotNil(t, cfg.Practice.Seed)
	assert.Equal(t, int64(7), *cfg.Practice.Seed)
	assert.Nil(t, cfg.Practice.File)
	require.NotNil(t, cfg.Log.Level)
	assert.Equal(t, "debug", *cfg.Log.Level)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice\n"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/cfg", "typlap", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/data", "typlap", "typlap.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join("/data", "typlap", "typlap.log"), DefaultLogPath())
}
