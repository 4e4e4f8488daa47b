package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cometbft/cometbft/crypto"
	cmtjson "github.com/cometbft/cometbft/libs/json"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/ethereum/go-ethereum/common"
)

type GenesisValidator struct {
	Address crypto.Address `json:"address"`
	PubKey  crypto.PubKey  `json:"pub_key"`
	Power   int64          `json:"power"`
	Name    string         `json:"name"`
}

// GenesisDoc defines the initial conditions for a CometBFT blockchain, in particular its validator set.
type GenesisDoc struct {
	GenesisTime     time.Time                 `json:"genesis_time"`
	ChainID         string                    `json:"chain_id"`
	InitialHeight   int64                     `json:"initial_height"`
	ConsensusParams *cmttypes.ConsensusParams `json:"consensus_params,omitempty"`
	Validators      []GenesisValidator        `json:"validators"`
	AppHash         []byte                    `json:"app_hash"`
	AppState        json.RawMessage           `json:"app_state"`
}

// SaveAs is a utility method for saving GenensisDoc as a JSON file.
func (genDoc *GenesisDoc) SaveAs(file string) error {
	genDocBytes, err := cmtjson.MarshalIndent(genDoc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, genDocBytes, 0o600)
}

func (ag *GenesisDoc) ValidateAndComplete() error {
	if ag.ChainID == "" {
		return errors.New("genesis doc must include non-empty chain_id")
	}

	if ag.InitialHeight < 0 {
		return fmt.Errorf("initial_height cannot be negative (got %v)", ag.InitialHeight)
	}

	if ag.InitialHeight == 0 {
		ag.InitialHeight = 1
	}

	if ag.GenesisTime.IsZero() {
		ag.GenesisTime = time.Now().Round(0).UTC()
	}

	return nil
}

func ExportGenesisFile(genesis *GenesisDoc, genFile string) error {
	if err := genesis.ValidateAndComplete(); err != nil {
		return err
	}
	return genesis.SaveAs(genFile)
}

type Allocation struct {
	Address common.Address `json:"address"`
	Amount  uint64         `json:"amount"`
}

// AppGenesis is the app_state section of the genesis document.
type AppGenesis struct {
	Owner        common.Address    `json:"owner"`
	Admins       []common.Address  `json:"admins"`
	Proposers    []common.Address  `json:"proposers"`
	Ledger       LedgerParams      `json:"ledger"`
	Requirements RequirementsTable `json:"requirements"`
	Allocations  []Allocation      `json:"allocations"`
	Treasury     uint64            `json:"treasury"`
}

func DefaultAppGenesis(owner common.Address) *AppGenesis {
	return &AppGenesis{
		Owner:        owner,
		Admins:       []common.Address{owner},
		Proposers:    []common.Address{owner},
		Ledger:       DefaultLedgerParams(),
		Requirements: DefaultRequirements(),
		Allocations:  []Allocation{},
	}
}

func (g *AppGenesis) Validate() error {
	if g.Owner == (common.Address{}) {
		return errors.New("genesis owner is empty")
	}
	if !ValidCooldown(g.Ledger.CooldownPeriod) {
		return fmt.Errorf("cooldown %d outside [%d, %d]", g.Ledger.CooldownPeriod, MinCooldownPeriod, MaxCooldownPeriod)
	}
	return g.Requirements.Validate()
}

func ParseAppGenesis(dat []byte) (g *AppGenesis, err error) {
	g = new(AppGenesis)
	if err = json.Unmarshal(dat, g); err != nil {
		return nil, err
	}
	if err = g.Validate(); err != nil {
		return nil, err
	}
	return
}

const (
	GovModuleName     = "gov"
	StakingModuleName = "staking"

	DefaultPower = 1000
)
