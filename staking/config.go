package staking

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/timburman/Reactive-Governance/types"
)

// Owner-only configuration setters. Each reports the changed field.

const (
	FieldVotingContract = "votingContract"
	FieldCooldownPeriod = "cooldownPeriod"
	FieldMinimumStake   = "minimumStake"
	FieldMinimumUnstake = "minimumUnstake"
	FieldEmergencyMode  = "emergencyMode"
)

func (l *Ledger) requireOwner(caller common.Address) error {
	if l.acl == nil || !l.acl.HasRole(types.RoleOwner, caller) {
		return ErrNotAuthorized
	}
	return nil
}

func (l *Ledger) SetVotingContract(caller, contract common.Address) (event *types.EventLedgerConfig, err error) {
	if err = l.requireOwner(caller); err != nil {
		return nil, err
	}
	err = l.apply(func(ls ledgerStore) error {
		return ls.setVotingContract(contract)
	})
	if err != nil {
		return nil, err
	}
	event = &types.EventLedgerConfig{Field: FieldVotingContract, Value: contract.Hex()}
	return
}

func (l *Ledger) updateParams(caller common.Address, update func(p *types.LedgerParams) error) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	return l.apply(func(ls ledgerStore) error {
		p, err := ls.params()
		if err != nil {
			return err
		}
		if err = update(&p); err != nil {
			return err
		}
		return ls.setParams(p)
	})
}

func (l *Ledger) SetCooldownPeriod(caller common.Address, period uint64) (event *types.EventLedgerConfig, err error) {
	err = l.updateParams(caller, func(p *types.LedgerParams) error {
		if !types.ValidCooldown(period) {
			return ErrInvalidCooldown
		}
		p.CooldownPeriod = period
		return nil
	})
	if err != nil {
		return nil, err
	}
	event = &types.EventLedgerConfig{Field: FieldCooldownPeriod, Value: strconv.FormatUint(period, 10)}
	return
}

func (l *Ledger) SetMinimumStake(caller common.Address, amount uint64) (event *types.EventLedgerConfig, err error) {
	err = l.updateParams(caller, func(p *types.LedgerParams) error {
		p.MinimumStake = amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	event = &types.EventLedgerConfig{Field: FieldMinimumStake, Value: strconv.FormatUint(amount, 10)}
	return
}

func (l *Ledger) SetMinimumUnstake(caller common.Address, amount uint64) (event *types.EventLedgerConfig, err error) {
	err = l.updateParams(caller, func(p *types.LedgerParams) error {
		p.MinimumUnstake = amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	event = &types.EventLedgerConfig{Field: FieldMinimumUnstake, Value: strconv.FormatUint(amount, 10)}
	return
}

func (l *Ledger) SetEmergencyMode(caller common.Address, enabled bool) (event *types.EventLedgerConfig, err error) {
	err = l.updateParams(caller, func(p *types.LedgerParams) error {
		p.EmergencyMode = enabled
		return nil
	})
	if err != nil {
		return nil, err
	}
	event = &types.EventLedgerConfig{Field: FieldEmergencyMode, Value: strconv.FormatBool(enabled)}
	return
}
