package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_config "github.com/timburman/Reactive-Governance/config"
	"github.com/timburman/Reactive-Governance/types"
)

func TestParseChoice(t *testing.T) {
	for i, name := range types.BinaryChoices {
		choice, err := parseChoice(name)
		require.NoError(t, err)
		assert.Equal(t, uint64(i), choice)
	}
	choice, err := parseChoice("against")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), choice)

	choice, err = parseChoice("4")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), choice)

	_, err = parseChoice("maybe")
	assert.Error(t, err)
}

func TestParseArgs(t *testing.T) {
	_, err := parseAmount("-5")
	assert.Error(t, err)
	amount, err := parseAmount("1500")
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), amount)

	_, err = parseAddress("0x1234")
	assert.Error(t, err)
	addr, err := parseAddress("0x00000000000000000000000000000000000000aa")
	require.NoError(t, err)
	assert.Equal(t, byte(0xaa), addr[19])
}

func TestQueryNamesSorted(t *testing.T) {
	names := queryNames()
	require.Len(t, names, len(queryPaths))
	assert.IsIncreasing(t, names)
}

func TestLoadConfig(t *testing.T) {
	home := t.TempDir()
	_, err := loadConfig(home)
	assert.Error(t, err)

	cfg := app_config.DefaultConfig(home)
	cfg.App.IndexerRPC = ""
	app_config.WriteConfigFile(filepath.Join(home, "config", "config.toml"), cfg)

	loaded, err := loadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, home, loaded.App.Home)
	assert.Equal(t, home, loaded.RootDir)
	assert.Empty(t, loaded.App.IndexerRPC)
	assert.Equal(t, app_config.DefaultIndexerListen, loaded.App.IndexerListen)
}
