package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cometbft/cometbft/config"
	"github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/p2p"
	"github.com/cometbft/cometbft/privval"
	eth_crypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	DefaultHomeDir       = "$HOME/.govd"
	DefaultIndexerDB     = "indexer.db"
	DefaultIndexerListen = "127.0.0.1:8088"
	DefaultNamespace     = "govd"

	OwnerKeyFile = "owner_priv_key"
)

// GovAppConfig is the [app] section of config.toml.
type GovAppConfig struct {
	Home string `mapstructure:"-"`

	// Path of the indexer sqlite file, relative to Home unless absolute.
	IndexerDB     string `mapstructure:"indexer_db"`
	IndexerListen string `mapstructure:"indexer_listen"`
	// Empty disables the indexer.
	IndexerRPC string `mapstructure:"indexer_rpc"`

	MetricsNamespace string `mapstructure:"metrics_namespace"`
}

func DefaultGovAppConfig(home string) *GovAppConfig {
	return &GovAppConfig{
		Home:             home,
		IndexerDB:        DefaultIndexerDB,
		IndexerListen:    DefaultIndexerListen,
		IndexerRPC:       "http://127.0.0.1:26657",
		MetricsNamespace: DefaultNamespace,
	}
}

func (c *GovAppConfig) IndexerDBPath() string {
	if filepath.IsAbs(c.IndexerDB) {
		return c.IndexerDB
	}
	return filepath.Join(c.Home, c.IndexerDB)
}

func (c *GovAppConfig) DataDir() string {
	return filepath.Join(c.Home, "data")
}

func (c *GovAppConfig) ValidateBasic() error {
	if c.MetricsNamespace == "" {
		return fmt.Errorf("app.metrics_namespace is empty")
	}
	if c.IndexerRPC != "" && c.IndexerListen == "" {
		return fmt.Errorf("app.indexer_listen is required when the indexer is enabled")
	}
	return nil
}

type Config struct {
	*config.Config `mapstructure:",squash"`

	App *GovAppConfig `mapstructure:"app"`
}

func DefaultConfig(home string) *Config {
	if len(home) == 0 {
		home = os.ExpandEnv(DefaultHomeDir)
	}
	_ = os.MkdirAll(filepath.Join(home, "config"), DefaultDirPerm)
	config := &Config{
		DefaultGovCometConfig(),
		DefaultGovAppConfig(home),
	}
	config.SetRoot(home)
	return config
}

func (c *Config) ValidateBasic() error {
	if err := c.Config.ValidateBasic(); err != nil {
		return err
	}
	return c.App.ValidateBasic()
}

// InitializeOwner writes a fresh secp256k1 key to the config dir and returns its
// address. The owner is granted every governance role at genesis.
func InitializeOwner(home string) (owner string, err error) {
	priv, err := eth_crypto.GenerateKey()
	if err != nil {
		return "", err
	}
	key := hex.EncodeToString(eth_crypto.FromECDSA(priv))
	if err = os.WriteFile(filepath.Join(home, "config", OwnerKeyFile), []byte(key), 0600); err != nil {
		return "", fmt.Errorf("write owner key: %w", err)
	}
	owner = eth_crypto.PubkeyToAddress(priv.PublicKey).Hex()
	return
}

func InitializeNodeValidatorFiles(config *Config, privKey crypto.PrivKey) (nodeID string, pk crypto.PubKey, err error) {
	nodeKey, err := p2p.LoadOrGenNodeKey(config.NodeKeyFile())
	if err != nil {
		return "", nil, err
	}
	nodeID = string(nodeKey.ID())

	pvKeyFile := config.PrivValidatorKeyFile()
	if err := os.MkdirAll(filepath.Dir(pvKeyFile), 0o777); err != nil {
		return "", nil, fmt.Errorf("could not create directory %q: %w", filepath.Dir(pvKeyFile), err)
	}

	pvStateFile := config.PrivValidatorStateFile()
	if err := os.MkdirAll(filepath.Dir(pvStateFile), 0o777); err != nil {
		return "", nil, fmt.Errorf("could not create directory %q: %w", filepath.Dir(pvStateFile), err)
	}

	var filePV *privval.FilePV
	if privKey == nil {
		filePV = privval.LoadOrGenFilePV(pvKeyFile, pvStateFile)
	} else {
		filePV = privval.NewFilePV(privKey, pvKeyFile, pvStateFile)
		filePV.Save()
	}
	pukey, err := filePV.GetPubKey()
	if err != nil {
		return "", nil, err
	}

	return nodeID, pukey, nil
}

func DefaultGovCometConfig() *config.Config {
	cometConfig := config.DefaultConfig()
	cometConfig.Consensus.TimeoutPropose = time.Second * 3
	cometConfig.Consensus.TimeoutPrevote = time.Second * 1
	cometConfig.Consensus.TimeoutPrecommit = time.Second * 1
	cometConfig.Consensus.TimeoutCommit = time.Millisecond * 1200
	return cometConfig
}
