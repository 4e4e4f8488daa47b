package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadConfig(t *testing.T) {
	home := t.TempDir()
	cfg := DefaultConfig(home)
	cfg.App.IndexerListen = "0.0.0.0:9090"
	cfg.App.MetricsNamespace = "testgov"
	path := filepath.Join(home, "config", "config.toml")
	WriteConfigFile(path, cfg)

	loaded := &Config{
		Config: DefaultGovCometConfig(),
		App:    DefaultGovAppConfig(home),
	}
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	require.NoError(t, v.Unmarshal(loaded))

	assert.Equal(t, "0.0.0.0:9090", loaded.App.IndexerListen)
	assert.Equal(t, "testgov", loaded.App.MetricsNamespace)
	assert.Equal(t, filepath.Join(home, DefaultIndexerDB), loaded.App.IndexerDBPath())
	assert.Equal(t, cfg.Consensus.TimeoutCommit, loaded.Consensus.TimeoutCommit)
}

func TestValidateBasic(t *testing.T) {
	cfg := DefaultGovAppConfig(t.TempDir())
	require.NoError(t, cfg.ValidateBasic())

	cfg.MetricsNamespace = ""
	require.Error(t, cfg.ValidateBasic())

	cfg = DefaultGovAppConfig(t.TempDir())
	cfg.IndexerListen = ""
	require.Error(t, cfg.ValidateBasic())
	cfg.IndexerRPC = ""
	require.NoError(t, cfg.ValidateBasic())
}

func TestInitializeOwner(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0o755))
	owner, err := InitializeOwner(home)
	require.NoError(t, err)
	assert.True(t, common.IsHexAddress(owner))

	info, err := os.Stat(filepath.Join(home, "config", OwnerKeyFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
