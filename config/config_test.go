package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveConfig(&Config{
		Logging: LoggingConfig{Level: "DEBUG", Format: "json", Output: "stderr"},
		DSS:     DSSConfig{ConnectString: "postgresql://phobos@localhost/phobos"},
	}, path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "postgresql://phobos@localhost/phobos", cfg.DSS.ConnectString)
	assert.Equal(t, 2, cfg.LayoutRAID1.ReplCount, "default applied on top of file values")
}

func TestLoadAppliesEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveConfig(&Config{
		Logging: LoggingConfig{Level: "INFO", Format: "text", Output: "stdout"},
		DSS:     DSSConfig{ConnectString: "from-file"},
	}, path))

	t.Setenv("PHOBOS_DSS_connect_string", "from-env")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DSS.ConnectString)
}

func TestLoadRejectsMissingConnectString(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveConfig(&Config{
		Logging: LoggingConfig{Level: "INFO", Format: "text", Output: "stdout"},
	}, path))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.DSS.ConnectString = "postgresql://phobos@localhost/phobos"
	assert.NoError(t, Validate(cfg))
}
