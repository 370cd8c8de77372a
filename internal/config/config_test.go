package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/go-substrate-client/internal/config"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, uint64(64), cfg.Era.DefaultPeriod)
	assert.Equal(t, 32, cfg.ChainHead.UnpinBatchSize)
	assert.Equal(t, "substrate_client", cfg.Metrics.Namespace)
}

func TestLoadRespectsEnvOverride(t *testing.T) {
	t.Setenv("SUBX_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadOverlaysConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subx.toml")
	toml := "[log]\nlevel = \"warn\"\n\n[era]\ndefault_period = 128\n"
	require.NoError(t, os.WriteFile(path, []byte(toml), 0o600))

	t.Setenv("SUBX_CONFIG_FILE", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, uint64(128), cfg.Era.DefaultPeriod)
	// Fields the file leaves unset keep their default/env value.
	assert.Equal(t, 32, cfg.ChainHead.UnpinBatchSize)
}

func TestLoadConfigFileWinsOverEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subx.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o600))

	t.Setenv("SUBX_CONFIG_FILE", path)
	t.Setenv("SUBX_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
}
