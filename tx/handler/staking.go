package handler

import (
	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/timburman/Reactive-Governance/state"
	"github.com/timburman/Reactive-Governance/tx"
	"github.com/timburman/Reactive-Governance/types"
)

func applyStake(m *state.Modules, sender common.Address, body *tx.StakeTx) ([]abcitypes.Event, error) {
	event, err := m.Ledger.Stake(sender, body.Amount)
	if err != nil {
		return nil, err
	}
	return []abcitypes.Event{types.EncodeEventStake(event)}, nil
}

func applyUnstake(m *state.Modules, sender common.Address, body *tx.UnstakeTx) ([]abcitypes.Event, error) {
	event, err := m.Ledger.Unstake(sender, body.Amount)
	if err != nil {
		return nil, err
	}
	return []abcitypes.Event{types.EncodeEventUnstake(event)}, nil
}

func applyClaim(m *state.Modules, sender common.Address, body *tx.ClaimTx) ([]abcitypes.Event, error) {
	event, err := m.Ledger.ClaimUnstake(sender, body.Index)
	if err != nil {
		return nil, err
	}
	return []abcitypes.Event{types.EncodeEventClaim(event)}, nil
}

func applyClaimAll(m *state.Modules, sender common.Address, body *tx.ClaimAllTx) ([]abcitypes.Event, error) {
	event, err := m.Ledger.ClaimAllReady(sender)
	if err != nil {
		return nil, err
	}
	return []abcitypes.Event{types.EncodeEventClaimAll(event)}, nil
}

func applyLedgerConfig(m *state.Modules, sender common.Address, body *tx.LedgerConfigTx) (events []abcitypes.Event, err error) {
	if err = body.ValidateBasic(); err != nil {
		return nil, err
	}
	var changes []*types.EventLedgerConfig
	record := func(event *types.EventLedgerConfig, err error) error {
		if err == nil {
			changes = append(changes, event)
		}
		return err
	}
	if body.VotingContract != nil {
		if err = record(m.Ledger.SetVotingContract(sender, *body.VotingContract)); err != nil {
			return nil, err
		}
	}
	if body.CooldownPeriod != nil {
		if err = record(m.Ledger.SetCooldownPeriod(sender, *body.CooldownPeriod)); err != nil {
			return nil, err
		}
	}
	if body.MinimumStake != nil {
		if err = record(m.Ledger.SetMinimumStake(sender, *body.MinimumStake)); err != nil {
			return nil, err
		}
	}
	if body.MinimumUnstake != nil {
		if err = record(m.Ledger.SetMinimumUnstake(sender, *body.MinimumUnstake)); err != nil {
			return nil, err
		}
	}
	if body.EmergencyMode != nil {
		if err = record(m.Ledger.SetEmergencyMode(sender, *body.EmergencyMode)); err != nil {
			return nil, err
		}
	}
	for _, c := range changes {
		events = append(events, types.EncodeEventLedgerConfig(c))
	}
	return
}
