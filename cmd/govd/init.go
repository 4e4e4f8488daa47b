package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	cmtos "github.com/cometbft/cometbft/libs/os"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	app_config "github.com/timburman/Reactive-Governance/config"
	"github.com/timburman/Reactive-Governance/types"
)

type printInfo struct {
	ChainID    string          `json:"chain_id" yaml:"chain_id"`
	NodeID     string          `json:"node_id" yaml:"node_id"`
	Owner      string          `json:"owner" yaml:"owner"`
	AppMessage json.RawMessage `json:"app_message" yaml:"app_message"`
}

func displayInfo(info printInfo) error {
	out, err := json.MarshalIndent(info, "", " ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(os.Stderr, "%s\n", out)

	return err
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize private validator, p2p, owner key, genesis, and application configuration files",
	Args:  cobra.ExactArgs(0),
	RunE:  initRun,
}

func init() {
	initCmd.Flags().BoolP(types.FlagOverwrite, "o", false, "overwrite the genesis.json file")
	initCmd.Flags().String(types.FlagChainID, "", "genesis file chain-id, if left blank will be randomly created")
	initCmd.Flags().String(types.FlagHome, "", "node home directory")
	initCmd.Flags().Uint64(types.FlagSupply, 1_000_000, "tokens allocated to the owner at genesis")
	initCmd.Flags().Uint64(types.FlagTreasury, 100_000, "tokens held by the governance treasury at genesis")
}

func initRun(cmd *cobra.Command, args []string) error {
	home, _ := cmd.Flags().GetString(types.FlagHome)
	chainID, _ := cmd.Flags().GetString(types.FlagChainID)
	overwrite, _ := cmd.Flags().GetBool(types.FlagOverwrite)
	supply, _ := cmd.Flags().GetUint64(types.FlagSupply)
	treasury, _ := cmd.Flags().GetUint64(types.FlagTreasury)

	if chainID == "" {
		chainID = fmt.Sprintf("gov-chain-%v", rand.Uint64())
	}
	appConfig := app_config.DefaultConfig(home)
	genFile := appConfig.GenesisFile()
	if !overwrite && cmtos.FileExists(genFile) {
		return fmt.Errorf("genesis file %s already exists, use --%s to replace it", genFile, types.FlagOverwrite)
	}

	nodeID, pk, err := app_config.InitializeNodeValidatorFiles(appConfig, nil)
	if err != nil {
		return err
	}
	owner, err := app_config.InitializeOwner(appConfig.RootDir)
	if err != nil {
		return err
	}

	appGenesis := types.DefaultAppGenesis(common.HexToAddress(owner))
	appGenesis.Allocations = append(appGenesis.Allocations, types.Allocation{Address: common.HexToAddress(owner), Amount: supply})
	appGenesis.Treasury = treasury
	appState, err := json.MarshalIndent(appGenesis, "", "  ")
	if err != nil {
		return err
	}

	genDoc := &types.GenesisDoc{
		GenesisTime:     time.Now(),
		ChainID:         chainID,
		ConsensusParams: cmttypes.DefaultConsensusParams(),
		InitialHeight:   1,
		Validators: []types.GenesisValidator{
			{Address: pk.Address(), PubKey: pk, Power: types.DefaultPower},
		},
		AppState: appState,
	}
	if err = types.ExportGenesisFile(genDoc, genFile); err != nil {
		return fmt.Errorf("failed to export genesis file: %w", err)
	}
	app_config.WriteConfigFile(filepath.Join(appConfig.RootDir, "config", "config.toml"), appConfig)
	return displayInfo(printInfo{
		ChainID:    chainID,
		NodeID:     nodeID,
		Owner:      owner,
		AppMessage: appState,
	})
}
